/*
Package orm maps models to keys of a KVStore.

A ModelBucket stores models of a single type under a common prefix and
keeps any number of secondary indexes in sync with them. Indexes are
maintained on every Put and Delete, so reads through an index never see
a model that was removed.
*/
package orm
