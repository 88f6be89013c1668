/*
Package gconf keeps the configuration of an extension in the database.

Each extension owns a single configuration entry, written once from the
genesis file and read by its handlers. Failing to load a configuration
means the application was not set up correctly.
*/
package gconf
