/*
Package aml implements anti-money-laundering screening and the case/report
workflow.

Screening computes a fixed set of risk indicators over a subject's full
transaction history (30-day volume, CTR-threshold transactions, structuring,
rapid transactions, unverified identity) and sums their severity weights into
a 0-100 score. The result is ephemeral; compliance staff decide whether to
open a case from it.

Cases move through open, investigating, pending_report, reported and closed,
with closing allowed from any non-closed state. CTR/STR report records are
tracked locally; creating a report on an open or investigating case moves the
case to pending_report, and a CTR report declaring an amount below the
regulatory threshold fails with a ThresholdViolationError.
*/
package aml
