/*
Package token is a ledger of fungible assets.

A Mint defines an asset. An Account holds an amount of exactly one mint
and is controlled by its owner: only the owner can move funds out of it,
hand it to another owner or close it. Every account pays a storage
deposit in native coins when it is created and gets it back when it is
closed.
*/
package token
