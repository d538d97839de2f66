/*
Package config loads and validates overflo job files.

	            +-------------+
	            |   Config    |
	            |   (Jobs)    |
	            +------+------+
	                   |
	      +------------+------------+
	      |            |            |
	+-----+----+ +-----+----+ +-----+----+
	|   YAML   | |   JSON   | |   HCL    |
	|  Parser  | |  Parser  | |  Parser  |
	+----------+ +----------+ +----------+

🎯 Purpose:
- Read a job file in whichever format its extension names
- Fill in defaults and reject anything a transfer could not run with
- Turn each job into a filter.Spec and an operation.Request

🔄 Flow:
1. Load picks a registered Parser by file name
2. The parser decodes strictly, unknown fields are errors
3. Validate applies defaults and checks every job
4. Callers ask a Job for its Request

🔍 Example (HCL):

	logging { level = "info" }
	parallel = 2

	transfer "photos" {
	  source      = "${env.HOME}/DCIM"
	  destination = "/mnt/usb/photos"
	  mode        = "move"
	  percentage  = 50
	  extension   = "image"
	  ignore      = ["*.tmp"]

	  size {
	    kind = "large"
	    mb   = 100
	  }

	  modified {
	    kind = "older"
	    days = 7
	  }
	}

The same document can be written as YAML or JSON using a "transfers" list
whose entries carry a "name" field.
*/
package config
