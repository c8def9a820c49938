package main

import "github.com/zostay/go-hdrenc/tools/hdrenc/cmd"

func main() {
	cmd.Execute()
}
