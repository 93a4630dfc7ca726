package main

import "github.com/aallbrig/clause/cmd"

func main() {
	cmd.Execute()
}
