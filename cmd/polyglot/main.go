package main

import "github.com/MeKo-Tech/polyglot/cmd/polyglot/cmd"

func main() {
	cmd.Execute()
}
