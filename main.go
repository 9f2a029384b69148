package main

import "asset-resynch/cmd"

func main() {
	cmd.Execute()
}
