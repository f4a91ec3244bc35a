package main

import (
	"github.com/lunixbochs/redcorn/go/cmd"

	_ "github.com/lunixbochs/redcorn/go/cmd/archs"
	_ "github.com/lunixbochs/redcorn/go/cmd/dis"
	_ "github.com/lunixbochs/redcorn/go/cmd/dump"
)

func main() { cmd.Main() }
