package main

import (
	"rase/internal/app"
	"rase/internal/appshell"
)

func main() { appshell.Main(app.RunContext) }
