/*
Package escrow implements a two party atomic swap.

The initializer locks an amount of one asset in a vault and states how
much of another asset it wants in return. Any taker that pays the
expected amount into the initializer's proceeds account receives the
whole vault in the same transaction. Until then the initializer can
cancel and take the deposit back.

A vault is a token account living at an address derived from the escrow
id. Its owner is the escrow authority, derived from the program id alone.
Neither has a private key, so only this package can move funds out of a
vault, and only while running one of its own handlers.

Both the vault and the escrow record are removed when a swap settles or is
cancelled. The two outcomes can be told apart only by the escrow.state
tag of the transaction that ended the swap.
*/
package escrow
