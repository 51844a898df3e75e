// Package lang compiles Grand Expressions (glorified rand() expressions)
// into random number generators.
//
// A Grand Expression describes a range of numbers, optionally constrained,
// from which values are drawn uniformly. Compilation runs a hand-written
// lexer and recursive descent parser that produce an immutable expression
// tree ([Gex]); evaluation walks the tree and draws from an entropy source.
//
// # Grammar
//
// Informal EBNF:
//
//	Expression → Term (RangeOp Term? Constraint*)?
//	           | RangeOp Term? Constraint*
//	Term       → Number | '(' Expression ')' | '[' Expression (',' Expression)* ']'
//	RangeOp    → '..' | ',,' | '.,' | ',.'
//	Constraint → '|' '!'? '*' Number (',' Number)*
//	Number     → [+-]? Digit+ ('.' Digit+)?
//
// Any other character is insignificant and may be used freely as
// commentary.
//
// # Ranges
//
//	0..10     between 0 and 10, inclusive
//	0,,10     between 0 and 10, exclusive
//	-10,.10   excludes -10, includes 10
//	0..       any non-negative number
//	..0       any non-positive number
//	..        any number
//
// The first character of the operator describes the low bound and the
// second describes the high bound: '.' is closed, ',' is open. A missing
// bound is replaced by [MinBound] or [MaxBound].
//
// # Selections
//
//	[1, 2, 3]          one of 1, 2 or 3
//	[0..10, 90..100]   a number near either end of [0, 100]
//
// # Constraints
//
//	0..100|*2        an even number
//	0..100|*2,3,5    a multiple of 2, 3 and 5 (their LCM, 30)
//	0..100|!*2       not a multiple of 2
//	0..100|*3|!*2    an odd multiple of 3
//
// A multiple-of constraint floors each sample to the nearest lower multiple
// of its divisor. A negated constraint rejects samples that are a multiple
// of any listed divisor and draws again, up to a configurable number of
// attempts ([WithRetries]); when the attempts run out the last draw is
// returned as is, and [Sample.Satisfied] reports false. A constrained range
// samples integers when every divisor of every constraint is integral, so
// "0..100|!*2" is an odd integer.
//
// When a range with literal bounds carries a negated constraint and either
// a multiple-of constraint or integer sampling, the compiler enumerates
// every admissible value up front, provided the table fits in the memory
// budget ([WithMemoryBudget]). Evaluation then picks a table entry
// directly, and a range with no admissible values is a compile error
// ([ErrUnsatisfiable]).
//
// # Example
//
//	prog, err := lang.Compile(ctx, "-10.5..0.5|*0.25")
//	if err != nil {
//		return err
//	}
//
//	for v := range prog.Samples(ctx, 10) {
//		fmt.Println(v)
//	}
package lang
