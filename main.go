package main

import "github.com/dzjyyds666/tomledit/cmd"

func main() {
	cmd.Execute()
}
