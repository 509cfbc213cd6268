package main

import "modulos/pricing/cmd/pricectl/cmd"

func main() {
	cmd.Execute()
}
