// Package nxtree defines the read-only node tree that conversions walk, an
// in-memory implementation of it, and a reader for the textual HCL form of
// such trees.
//
// # Node model
//
// A source file is a tree of classified groups (entry, data, instrument,
// detector, monitor, sample, beam, log, source) whose leaves are fields. A
// field carries a cty.Value, optional attributes (units, axis, signal, ...),
// and the dimensions of its stored array, slowest-varying first.
//
// # Textual form
//
// The reader maps HCL onto the model one-to-one:
//
//	NeXus_version = "4.3.0"
//
//	entry "run042" {
//	  run_number = 42
//	  duration   = 3600
//
//	  data "bank1" {
//	    field "data" {
//	      value = [[[1, 2, 3], [4, 5, 6]]]
//	    }
//	    field "time_of_flight" {
//	      value = [10, 20, 30, 40]
//	      units = "us"
//	    }
//	  }
//	}
//
// Blocks become groups (block type = class, optional label = name), plain
// attributes become fields without attributes, and `field` blocks become
// fields whose `value` is the leaf value and whose other attributes are the
// field's attributes. Nested lists give the stored dimensions unless an
// explicit `dims` attribute is present.
package nxtree
