// Package text prepares user input for synthesis: loading files, cleaning
// up Unicode, and cutting long documents into request-sized chunks.
package text
