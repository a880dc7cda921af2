package main

import "github.com/yangshao2/deq-stats/cmd"

func main() {
	cmd.Execute()
}
