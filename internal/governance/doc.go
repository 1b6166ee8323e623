// Package governance enforces per-call runtime limits around the number
// theory core. The core itself never blocks and never observes a context,
// so the limits are applied from the outside: a call runs on its own
// goroutine and the caller stops waiting once the budget is spent.
package governance
