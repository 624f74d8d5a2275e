package main

import "github.com/theirongolddev/callboard/cmd"

func main() {
	cmd.Execute()
}
