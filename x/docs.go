/*
Package x contains the extensions of the ledger.

Extensions implement common functionality (Handler, Decorator,
etc.) and are combined together by the app package to construct
the application. Every extension receives an Authenticator, so the
source of authorization is plugged in rather than hard-coded.

Follow standard go naming conventions and avoid stutter. Use
eg. `escrow.ExchangeMsg` in place of `escrow.EscrowExchangeMsg`.
*/
package x
