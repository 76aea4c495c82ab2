// Package report renders evaluation results as a plain-text summary and as
// CSV, JSON and XLSX report files.
package report
