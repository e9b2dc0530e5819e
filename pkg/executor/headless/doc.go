// Package headless runs annotation plans without an interactive client.
//
// A plan is a YAML file naming a page and the steps to run on it:
//
//	url: https://example.com/pricing
//	session:
//	  headless: true
//	  width: 1440
//	  height: 900
//	steps:
//	  - kind: annotate
//	    selector: .plan-card
//	    label: Plan
//	    maxMatches: 3
//	  - kind: comment
//	    url_pattern: "https://example.com/pricing*"
//	    text: Contact sales
//	    comment: Should this link to the form?
//	    position: bottom
//	  - kind: debug
//	screenshot:
//	  enabled: true
//	  path: pricing.png
//	artifacts:
//	  enabled: true
//	  output_dir: .annotator/artifacts
//	logging:
//	  verbosity: verbose
//
// Each step runs the browser tool of its kind (annotate, comment, clear,
// debug, navigate, wait) with every other key passed as a tool argument.
// A step with a url_pattern only runs while the page URL matches that glob.
//
// The run ends with a status: success when no step failed, partial_success
// when some did, failed when all did or the page could not be opened. The
// executor writes execution.json and summary.md to the artifact directory
// and prints a summary to the console.
package headless
