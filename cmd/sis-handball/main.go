// Command sis-handball fetches, caches and renders SIS handball league data.
package main

import "github.com/Grabber66/sis-handball/internal/cli"

func main() {
	cli.Execute()
}
