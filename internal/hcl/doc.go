// Package hcl loads recipe files written in HCL:
//
//	variables {
//	  pkg = "./..."
//	}
//
//	recipe "test" {
//	  description = "Run tests"
//	  depends_on  = ["build"]
//	  commands    = ["go test ${var.pkg}"]
//	}
//
// Variables are evaluated once and exposed to command templates as var.<name>.
package hcl
