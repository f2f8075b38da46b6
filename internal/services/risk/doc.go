// Package risk combines fraud alerts, AML cases, and transaction
// statistics into one composite risk score per subject.
package risk
