package main

import (
	"github.com/decker502/valentine/cmd"
	"github.com/decker502/valentine/pkg/embedded"
)

func main() {
	// dataFS 在 embed.go 中声明
	embedded.Init(dataFS)
	cmd.Execute()
}
