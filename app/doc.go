/*
Package app ties the extensions together into an ABCI application.

Transactions are decoded, passed through a chain of decorators
(logging, panic recovery, signature verification, savepoint) and routed
by message path to the handler of the extension that registered it.
The application processes one transaction at a time, so two transactions
touching the same escrow can never interleave.
*/
package app
