package models

type BalanceRequest struct {
	PublicKey string
}

type AirdropRequest struct {
	PublicKey string
	Lamports  uint64
}
