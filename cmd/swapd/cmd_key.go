package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/iov-one/vaultswap/crypto"
)

func env(name, fallback string) string {
	if v, ok := os.LookupEnv(name); ok {
		return v
	}
	return fallback
}

func defaultKeyPath() string {
	return env("SWAPD_PRIV_KEY", os.Getenv("HOME")+"/.swapd.priv.key")
}

func cmdKeygen(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Generate a new private key.

When successful a new file with a hex encoded private key is created. This
command fails if the private key file already exists.
`)
		fl.PrintDefaults()
	}
	var (
		keyPathFl = fl.String("key", defaultKeyPath(),
			"Path to the private key file. You can use SWAPD_PRIV_KEY environment variable to set it.")
	)
	fl.Parse(args)

	key := crypto.GenPrivKeyEd25519()
	if err := crypto.SavePrivateKey(key, *keyPathFl, false); err != nil {
		return err
	}
	fmt.Fprintln(output, key.PublicKey().Address())
	return nil
}

func cmdKeyaddr(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print out a hex-address associated with your private key.
`)
		fl.PrintDefaults()
	}
	var (
		keyPathFl = fl.String("key", defaultKeyPath(),
			"Path to the private key file. You can use SWAPD_PRIV_KEY environment variable to set it.")
	)
	fl.Parse(args)

	key, err := crypto.LoadPrivateKey(*keyPathFl)
	if err != nil {
		return err
	}
	fmt.Fprintln(output, key.PublicKey().Address())
	return nil
}
