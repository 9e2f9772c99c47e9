package se

// Then runs body with cond pushed as the active thread's path condition,
// guarding every event body records (spec.md §8 scenario 4's "if (p) { ...
// } else { ... }"). The branch is closed again once body returns; If
// combines Then with an optional Else.
func Then(cond Val[bool], body func()) {
	driver.Current().EnterThen(cond.instr)
	body()
	driver.Current().Leave()
}

// Else runs body with the negation of cond pushed as the active thread's
// path condition.
func Else(cond Val[bool], body func()) {
	driver.Current().EnterElse(ValNot(cond).instr)
	body()
	driver.Current().Leave()
}

// If records a guarded conditional: thenBody runs under cond, elseBody (if
// non-nil) runs under its negation, exactly as original_source's
// `if (p) { x = 1; } else { x = 2; }` scenario is recorded.
func If(cond Val[bool], thenBody func(), elseBody func()) {
	Then(cond, thenBody)
	if elseBody != nil {
		Else(cond, elseBody)
	}
}
