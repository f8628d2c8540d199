package main

import "github.com/ardanlabs/coliseum/app/wallet/cli/cmd"

func main() {
	cmd.Execute()
}
