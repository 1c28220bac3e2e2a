package main

import "github.com/Skotchmaster/shop_erp/internal/cli"

func main() {
	cli.Execute()
}
