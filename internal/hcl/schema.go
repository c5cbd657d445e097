package hcl

import (
	"github.com/hashicorp/hcl/v2"
)

// fileRoot is used to decode all possible top-level blocks from any file.
type fileRoot struct {
	Program *programBlock  `hcl:"program,block"`
	Inputs  []*inputBlock  `hcl:"input,block"`
	Nodes   []*nodeBlock   `hcl:"node,block"`
	Outputs []*outputBlock `hcl:"output,block"`
	Sends   []*sendBlock   `hcl:"send,block"`
	Remain  hcl.Body       `hcl:",remain"`
}

type programBlock struct {
	Name string `hcl:"name,label"`
}

type inputBlock struct {
	Name    string         `hcl:"name,label"`
	Kind    string         `hcl:"kind,optional"`
	Initial hcl.Expression `hcl:"initial,optional"`
	Every   string         `hcl:"every,optional"`
}

type nodeBlock struct {
	Name    string         `hcl:"name,label"`
	Kind    string         `hcl:"kind"`
	Sources []string       `hcl:"sources"`
	Initial hcl.Expression `hcl:"initial,optional"`
	Expr    hcl.Expression `hcl:"expr"`
	Watch   string         `hcl:"watch,optional"`
}

type outputBlock struct {
	Name   string `hcl:"name,label"`
	Source string `hcl:"source"`
}

type sendBlock struct {
	Input string         `hcl:"input,label"`
	Value hcl.Expression `hcl:"value"`
	Delay string         `hcl:"delay,optional"`
}
