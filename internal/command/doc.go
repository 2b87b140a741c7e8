// Package command builds the breedfetch command line application.
//
// Commands:
//
//	lookup NAME...  print the sub-breeds of each breed and the catalog call count
//	serve           run the HTTP lookup service
//	check           run the health checks once
//
// Every command reads the YAML configuration (see internal/config); flags
// and BREEDFETCH_* environment variables override file values.
package command
