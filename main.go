package main

import "github.com/glistman/aws-credentials/cmd"

func main() {
	cmd.Execute()
}
