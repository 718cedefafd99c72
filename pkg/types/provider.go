package types

type PaymentProvider string

const PaymentProviderPaddle PaymentProvider = "paddle"
