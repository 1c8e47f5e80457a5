// Command resumectl runs the résumé extraction pipeline on a local file or a
// URL and prints the canonical record as JSON.
package main

import (
	"log"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.SetFlags(0)
		log.Println(err)
		os.Exit(1)
	}
}
