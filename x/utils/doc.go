/*
Package utils contains decorators shared by every handler of the
application: panic recovery, logging, atomic savepoints and tagging of
delivered transactions.
*/
package utils
