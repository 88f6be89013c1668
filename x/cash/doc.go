/*
Package cash keeps native coin wallets.

Native coins pay for storage: every account or record created on the
ledger charges the configured storage deposit from its payer into a
reserve. The deposit is paid back when the storage is released.
*/
package cash
