package main

import "github.com/pretheevi/skillswap/internal/cmd"

func main() {
	cmd.Execute()
}
