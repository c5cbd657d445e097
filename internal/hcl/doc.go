// Package hcl provides the concrete HCL implementation of the configuration
// loading and data conversion interfaces defined in the `config` package.
// It is responsible for file discovery and parsing, translating HCL blocks
// into the format-agnostic program model, and converting Go values to cty.
//
// A program file declares inputs, derived nodes and outputs:
//
//	program "counter" {}
//
//	input "clicks" {
//	  kind    = "mailbox"
//	  initial = 0
//	}
//
//	node "count" {
//	  kind    = "foldp"
//	  sources = ["clicks"]
//	  initial = 0
//	  expr    = state + event
//	  watch   = "count"
//	}
//
//	output "main" {
//	  source = "count"
//	}
//
// A script file lists events to send, in order:
//
//	send "clicks" {
//	  value = 1
//	  delay = "100ms"
//	}
package hcl
