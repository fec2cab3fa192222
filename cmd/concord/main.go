package main

import "github.com/chainscribe/concord/cmd/concord/cmd"

func main() {
	cmd.Execute()
}
