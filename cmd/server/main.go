package main

import "bookhub-dashboard/internal/cmd"

func main() {
	cmd.Execute()
}
