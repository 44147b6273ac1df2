package gorules

import "github.com/quasilyte/go-ruleguard/dsl"

func smells(m dsl.Matcher) {
	// Two consecutive guard-ifs with the same return are mergeable with ||.
	m.Match(`if $c1 { return $ret }; if $c2 { return $ret }`).
		Report(`two consecutive guards return the same value; consider merging conditions with ||`).
		Suggest(`if $c1 || $c2 { return $ret }`)

	m.Match(`if $c1 { continue }; if $c2 { continue }`).
		Report(`two consecutive continues; consider merging conditions with ||`).
		Suggest(`if $c1 || $c2 { continue }`)

	// The pipeline must never emit through fmt on stdout; the one-shot
	// contract reserves stdout for the verdict encoder.
	m.Match(`fmt.Println($*_)`, `fmt.Printf($*_)`).
		Report(`direct stdout write; use the zap logger or the verdict encoder`)
}
