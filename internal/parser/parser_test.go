package parser

import "testing"

func TestParseCreateModuleWithParams(t *testing.T) {
	cmd, err := ParseLine("osc: osc sine 440")
	if err != nil {
		t.Fatalf("ParseLine: %v", err)
	}
	cm, ok := cmd.(CreateModule)
	if !ok {
		t.Fatalf("expected CreateModule, got %T", cmd)
	}
	if cm.Name != "osc" || cm.Type != "osc" || cm.Waveform != "sine" {
		t.Fatalf("unexpected parse: %+v", cm)
	}
	if len(cm.Params) != 1 || cm.Params[0] != 440 {
		t.Fatalf("expected params [440], got %v", cm.Params)
	}
}

func TestParseCreateModuleGateCapturesKeyword(t *testing.T) {
	cmd, err := ParseLine("g: gate manual")
	if err != nil {
		t.Fatalf("ParseLine: %v", err)
	}
	cm := cmd.(CreateModule)
	if cm.Keyword != "manual" {
		t.Fatalf("expected keyword manual, got %q", cm.Keyword)
	}
	if cm.Waveform != "" {
		t.Fatalf("expected Waveform unset for non-oscillator type, got %q", cm.Waveform)
	}
	if len(cm.Params) != 0 {
		t.Fatalf("expected no numeric params, got %v", cm.Params)
	}
}

func TestParseCreateModuleNonOscillatorIgnoresWaveformKeyword(t *testing.T) {
	cmd, err := ParseLine("f: filter 800 0.2")
	if err != nil {
		t.Fatalf("ParseLine: %v", err)
	}
	cm := cmd.(CreateModule)
	if cm.Waveform != "" {
		t.Fatalf("expected no waveform for non-oscillator type, got %q", cm.Waveform)
	}
	if len(cm.Params) != 2 {
		t.Fatalf("expected 2 params, got %v", cm.Params)
	}
}

func TestParseBareConnectionDesugarsToAudioPort(t *testing.T) {
	cmd, err := ParseLine("vca.audio <- osc")
	if err != nil {
		t.Fatalf("ParseLine: %v", err)
	}
	c := cmd.(Connect)
	p, ok := c.Source.(Primary)
	if !ok {
		t.Fatalf("expected Primary source, got %T", c.Source)
	}
	if p.Ref.Module != "osc" || p.Ref.Port != "audio" {
		t.Fatalf("expected osc.audio, got %+v", p.Ref)
	}
}

func TestParseOutDestinationVariants(t *testing.T) {
	cases := map[string]PortRef{
		"out <- vca.out":       {Module: "out", Port: "mono"},
		"out.left <- vca.out":  {Module: "out", Port: "left"},
		"out.right <- vca.out": {Module: "out", Port: "right"},
	}
	for line, want := range cases {
		cmd, err := ParseLine(line)
		if err != nil {
			t.Fatalf("ParseLine(%q): %v", line, err)
		}
		c := cmd.(Connect)
		if c.Dest != want {
			t.Fatalf("ParseLine(%q): dest=%+v want %+v", line, c.Dest, want)
		}
	}
}

func TestParseSetParam(t *testing.T) {
	cmd, err := ParseLine("vcf.cutoff <- 800")
	if err != nil {
		t.Fatalf("ParseLine: %v", err)
	}
	sp, ok := cmd.(SetParam)
	if !ok {
		t.Fatalf("expected SetParam, got %T", cmd)
	}
	if sp.Module != "vcf" || sp.Param != "cutoff" || sp.Value != 800 {
		t.Fatalf("unexpected parse: %+v", sp)
	}
}

func TestParseScaledExpression(t *testing.T) {
	cmd, err := ParseLine("vca.cv <- lfo.sine * 0.5")
	if err != nil {
		t.Fatalf("ParseLine: %v", err)
	}
	c := cmd.(Connect)
	sc, ok := c.Source.(ScaledExpr)
	if !ok {
		t.Fatalf("expected ScaledExpr, got %T", c.Source)
	}
	if sc.Factor != 0.5 {
		t.Fatalf("expected factor 0.5, got %v", sc.Factor)
	}
	p, ok := sc.Expr.(Primary)
	if !ok || p.Ref.Module != "lfo" || p.Ref.Port != "sine" {
		t.Fatalf("expected lfo.sine primary, got %+v", sc.Expr)
	}
}

func TestParseOffsetExpressionWithNumberFirst(t *testing.T) {
	cmd, err := ParseLine("osc.freq <- 440 + lfo.sine")
	if err != nil {
		t.Fatalf("ParseLine: %v", err)
	}
	c := cmd.(Connect)
	off, ok := c.Source.(OffsetExpr)
	if !ok {
		t.Fatalf("expected OffsetExpr, got %T", c.Source)
	}
	if off.Amount != 440 {
		t.Fatalf("expected amount 440, got %v", off.Amount)
	}
}

// Associativity follows the rightmost operator occurrence in the raw
// text, regardless of which operator it is: `lfo.sine * 100 + 440`
// nests on the trailing ` + 440`, with `lfo.sine * 100` as its inner
// expression. Ordinary precedence gives the same tree here; the
// reversed test below is the case where the two rules differ.
func TestRightmostOperatorOccurrenceWins(t *testing.T) {
	cmd, err := ParseLine("osc.freq <- lfo.sine * 100 + 440")
	if err != nil {
		t.Fatalf("ParseLine: %v", err)
	}
	c := cmd.(Connect)
	off, ok := c.Source.(OffsetExpr)
	if !ok {
		t.Fatalf("expected outermost OffsetExpr (rightmost operator), got %T", c.Source)
	}
	if off.Amount != 440 {
		t.Fatalf("expected offset amount 440, got %v", off.Amount)
	}
	inner, ok := off.Expr.(ScaledExpr)
	if !ok {
		t.Fatalf("expected inner ScaledExpr, got %T", off.Expr)
	}
	if inner.Factor != 100 {
		t.Fatalf("expected inner factor 100, got %v", inner.Factor)
	}
}

func TestRightmostOperatorOccurrenceWinsReversed(t *testing.T) {
	// Here the rightmost operator is " * ", so the multiply becomes the
	// outer node even though it appears second when read left to right
	// is irrelevant -- what matters is string position, and " * 2" is
	// the last operator token in the string.
	cmd, err := ParseLine("osc.freq <- 440 + lfo.sine * 2")
	if err != nil {
		t.Fatalf("ParseLine: %v", err)
	}
	c := cmd.(Connect)
	sc, ok := c.Source.(ScaledExpr)
	if !ok {
		t.Fatalf("expected outermost ScaledExpr (rightmost operator), got %T", c.Source)
	}
	if sc.Factor != 2 {
		t.Fatalf("expected outer factor 2, got %v", sc.Factor)
	}
	if _, ok := sc.Expr.(OffsetExpr); !ok {
		t.Fatalf("expected inner OffsetExpr, got %T", sc.Expr)
	}
}

func TestCommandStringRoundTripsThroughParseLine(t *testing.T) {
	lines := []string{
		"osc: osc sine 440",
		"filt: filter 800 0.2",
		"out <- vca.out",
		"out.left <- vca.out",
		"vcf.cutoff <- 800",
		"vca.cv <- lfo.sine * 0.5",
		"osc.freq <- 440 + lfo.sine",
		"import uncertainty",
		"import uncertainty as unc",
	}
	for _, line := range lines {
		cmd, err := ParseLine(line)
		if err != nil {
			t.Fatalf("ParseLine(%q): %v", line, err)
		}
		reparsed, err := ParseLine(cmd.String())
		if err != nil {
			t.Fatalf("ParseLine(cmd.String()=%q for original %q): %v", cmd.String(), line, err)
		}
		if reparsed.String() != cmd.String() {
			t.Fatalf("round trip mismatch: %q -> %q -> %q", line, cmd.String(), reparsed.String())
		}
	}
}

func TestParseLinesStripsCommentsAndStartAndBlankLines(t *testing.T) {
	lines := []string{
		"# a full line comment",
		"",
		"start",
		"osc: osc sine 440  # inline comment",
		"  ",
	}
	cmds, err := ParseLines(lines)
	if err != nil {
		t.Fatalf("ParseLines: %v", err)
	}
	if len(cmds) != 1 {
		t.Fatalf("expected 1 command, got %d: %v", len(cmds), cmds)
	}
	cm := cmds[0].(CreateModule)
	if cm.Name != "osc" || cm.Waveform != "sine" {
		t.Fatalf("unexpected command: %+v", cm)
	}
}

func TestParseLinesPatchbayBlock(t *testing.T) {
	lines := []string{
		"patchbay:",
		"  freq_cv: port 1 frequency control voltage",
		"  out: port 2",
		"osc: osc sine 440",
	}
	cmds, err := ParseLines(lines)
	if err != nil {
		t.Fatalf("ParseLines: %v", err)
	}
	if len(cmds) != 2 {
		t.Fatalf("expected patchbay + create, got %d: %v", len(cmds), cmds)
	}
	pb, ok := cmds[0].(Patchbay)
	if !ok {
		t.Fatalf("expected Patchbay first, got %T", cmds[0])
	}
	if len(pb.Ports) != 2 {
		t.Fatalf("expected 2 patchbay ports, got %d", len(pb.Ports))
	}
	if pb.Ports[0].Name != "freq_cv" || pb.Ports[0].Number != 1 || pb.Ports[0].Description != "frequency control voltage" {
		t.Fatalf("unexpected first port: %+v", pb.Ports[0])
	}
	if pb.Ports[1].Name != "out" || pb.Ports[1].Number != 2 || pb.Ports[1].Description != "" {
		t.Fatalf("unexpected second port: %+v", pb.Ports[1])
	}
	if _, ok := cmds[1].(CreateModule); !ok {
		t.Fatalf("expected CreateModule after patchbay block, got %T", cmds[1])
	}
}

func TestRewriteForImportPrefixesLocalNamesButNotOut(t *testing.T) {
	cmds := []Command{
		CreateModule{Name: "nz", Type: "noise"},
		CreateModule{Name: "s", Type: "sah"},
		Connect{
			Dest:   PortRef{Module: "s", Port: "in"},
			Source: Primary{Ref: PortRef{Module: "nz", Port: "white"}},
		},
		Connect{
			Dest:   PortRef{Module: "out", Port: "mono"},
			Source: Primary{Ref: PortRef{Module: "s", Port: "out"}},
		},
		SetParam{Module: "s", Param: "gain", Value: 1},
	}
	rewritten, err := RewriteForImport("unc", cmds)
	if err != nil {
		t.Fatalf("RewriteForImport: %v", err)
	}

	cm := rewritten[0].(CreateModule)
	if cm.Name != "unc_nz" {
		t.Fatalf("expected prefixed name unc_nz, got %q", cm.Name)
	}

	conn := rewritten[2].(Connect)
	if conn.Dest.Module != "unc_s" {
		t.Fatalf("expected prefixed dest module, got %q", conn.Dest.Module)
	}
	src := conn.Source.(Primary)
	if src.Ref.Module != "unc_nz" {
		t.Fatalf("expected prefixed source module, got %q", src.Ref.Module)
	}

	outConn := rewritten[3].(Connect)
	if outConn.Dest.Module != "out" {
		t.Fatalf("expected out destination left unprefixed, got %q", outConn.Dest.Module)
	}

	sp := rewritten[4].(SetParam)
	if sp.Module != "unc_s" {
		t.Fatalf("expected prefixed SetParam module, got %q", sp.Module)
	}
}

func TestRewriteForImportRejectsNestedImport(t *testing.T) {
	cmds := []Command{
		Import{Path: "other"},
	}
	if _, err := RewriteForImport("unc", cmds); err == nil {
		t.Fatalf("expected nested import to be rejected")
	}
}
