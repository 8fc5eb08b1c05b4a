package main

import (
	"os"
	"strings"

	restage "github.com/0xa1bed0/restage/internal/apps/restage/cmds"
	"github.com/0xa1bed0/restage/internal/logs"
	"github.com/0xa1bed0/restage/internal/runtime"
)

func main() {
	logs.SetComponent(detectComponent("restage"))

	var execErr error

	rt := runtime.NewHostRuntime()
	defer rt.Finalize("restage", "Type 'restage help' to get help.", &execErr)

	rt.OpenRunLog()

	execErr = restage.Execute(rt)
}

func detectComponent(base string) string {
	if len(os.Args) > 1 && len(os.Args[1]) > 0 && os.Args[1][0] != '-' {
		return base + ":" + strings.Join(os.Args[1:], " ")
	}
	return base
}
