package main

import "github.com/nguyentantai21042004/segment-flow/internal/cli"

func main() {
	cli.Main()
}
