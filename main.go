package main

import "github.com/rszemeti/RP2040-OOK48-Headless/cmd"

func main() {
	cmd.Execute()
}
