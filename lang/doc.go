// Package lang runs programs written in ly, a small imperative scripting
// language with variables, functions, conditionals, loops, lists, structs,
// and modules.
//
// # Example
//
//	# Comments run to the end of the line.
//	import "./geometry.ly" as geo
//
//	let sides = [3, 4, 5]
//	func perimeter xs do
//		return sum(xs)
//	end
//
//	struct Point do
//		let x = 0
//		let y = 0
//		func norm2 do return x ^ 2 + y ^ 2 end
//	end
//
//	let p = new Point { x = 3, y = 4 }
//	if p.norm2() == 25 do
//		print("perimeter:", perimeter(sides))
//	else
//		print("unexpected")
//	end
//
// # Scoping
//
// Names are declared with let and must be declared before they are
// assigned. Function bodies, conditional branches, and loop bodies each open
// a scope one level deeper than their surroundings; a name declared in an
// inner scope shadows an outer one until the scope ends. Loop bodies reuse a
// single scope that is emptied after each iteration.
//
// Imported modules, struct instances, and lists each have storage of their
// own, reached with dotted names: geo.area, p.x, and sides.0. Code inside a
// module or struct method can also see top-level definitions and builtins.
//
// # Values
//
// Numbers are 32-bit floating point, so division by zero yields an infinity
// or NaN rather than an error. Lists and struct instances are shared: every
// variable holding one sees changes made through any other.
//
// # Standard module
//
// Unless disabled with [WithoutStd], every program starts with the functions
// of the standard module (abs, min, max, range, sum, map, join) in addition
// to the builtins print, len, push, str, num, input, type, calc, and env.
package lang
