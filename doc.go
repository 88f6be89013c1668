/*
Package vaultswap defines the interfaces used throughout the ledger, such
as storage, transactions and handlers. It also contains helpers to work
with context, conditions, derived authorities and abci.

An address is the digest of a condition. A signature condition carries a
public key. A derived condition carries a digest computed from a program
id, seeds and a bump, chosen so that no private key exists for it. Only
the program that derived it can act as that authority.
*/
package vaultswap
