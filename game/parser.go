package game

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseError reports a malformed command shape. It is returned to the
// sender only and never queued.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %q: %s", e.Input, e.Reason)
}

func parseErr(input, format string, args ...any) error {
	return &ParseError{Input: input, Reason: fmt.Sprintf(format, args...)}
}

// Parse turns a command line into a typed Order. It checks shape only: the
// entities named may not exist and the player may not be allowed to issue
// the order; that is the validator's job.
func Parse(input string) (*Order, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return nil, parseErr(input, "empty command")
	}

	// Keyword commands keep their argument casing.
	fields := strings.Fields(raw)
	switch strings.ToUpper(fields[0]) {
	case "TURN":
		if len(fields) != 1 {
			return nil, parseErr(raw, "TURN takes no arguments")
		}
		return &Order{Kind: OrderReady}, nil
	case "CANCEL":
		if len(fields) != 2 {
			return nil, parseErr(raw, "usage: CANCEL <order-number>")
		}
		idx, err := strconv.Atoi(fields[1])
		if err != nil || idx < 1 {
			return nil, parseErr(raw, "order number must be a positive integer")
		}
		return &Order{Kind: OrderCancel, Index: idx}, nil
	case "JOIN":
		return parseJoin(raw, fields)
	case "HELP":
		if len(fields) > 2 {
			return nil, parseErr(raw, "usage: HELP [topic]")
		}
		o := &Order{Kind: OrderHelp}
		if len(fields) == 2 {
			o.Topic = fields[1]
		}
		return o, nil
	}

	// Relation declarations and gifts carry a player name after '='.
	// Everything before the '=' is compact and case-insensitive; the name
	// keeps its case.
	var name string
	head := raw
	if eq := strings.IndexByte(raw, '='); eq >= 0 {
		head = raw[:eq]
		name = strings.TrimSpace(raw[eq+1:])
		if name == "" {
			return nil, parseErr(raw, "missing player name after '='")
		}
	}

	s := &scanner{input: raw, text: strings.ToUpper(strings.Join(strings.Fields(head), ""))}
	o, err := s.parseCompact(name)
	if err != nil {
		return nil, err
	}
	if !s.done() {
		return nil, parseErr(raw, "unexpected trailing text %q", s.rest())
	}
	return o, nil
}

func parseJoin(raw string, fields []string) (*Order, error) {
	if len(fields) < 2 || len(fields) > 4 {
		return nil, parseErr(raw, "usage: JOIN <name> [<minutes>] [<character>]")
	}
	o := &Order{Kind: OrderJoin, Name: fields[1], Minutes: 60}
	rest := fields[2:]
	if len(rest) > 0 {
		// The minutes argument is optional; a non-numeric token here is the
		// character name.
		if n, err := strconv.Atoi(rest[0]); err == nil {
			if n < 5 || n > 1440 {
				return nil, parseErr(raw, "turn preference must be 5..1440 minutes")
			}
			o.Minutes = n
			rest = rest[1:]
		}
	}
	if len(rest) > 1 {
		return nil, parseErr(raw, "usage: JOIN <name> [<minutes>] [<character>]")
	}
	if len(rest) == 1 {
		c, ok := ParseCharacter(rest[0])
		if !ok {
			return nil, parseErr(raw, "unknown character type %q", rest[0])
		}
		o.Char = c
	}
	return o, nil
}

// scanner walks the compact, upper-cased order text.
type scanner struct {
	input string // original text for error messages
	text  string
	pos   int
}

func (s *scanner) done() bool    { return s.pos >= len(s.text) }
func (s *scanner) rest() string  { return s.text[s.pos:] }
func (s *scanner) peek() byte {
	if s.done() {
		return 0
	}
	return s.text[s.pos]
}

func (s *scanner) accept(c byte) bool {
	if s.peek() == c {
		s.pos++
		return true
	}
	return false
}

func (s *scanner) acceptWord(w string) bool {
	if strings.HasPrefix(s.text[s.pos:], w) {
		s.pos += len(w)
		return true
	}
	return false
}

func (s *scanner) number() (int, bool) {
	start := s.pos
	for !s.done() && s.text[s.pos] >= '0' && s.text[s.pos] <= '9' {
		s.pos++
	}
	if s.pos == start {
		return 0, false
	}
	n, err := strconv.Atoi(s.text[start:s.pos])
	if err != nil {
		return 0, false
	}
	return n, true
}

func (s *scanner) requireNumber(what string) (int, error) {
	n, ok := s.number()
	if !ok {
		return 0, parseErr(s.input, "expected %s", what)
	}
	return n, nil
}

func (s *scanner) parseCompact(name string) (*Order, error) {
	switch {
	case s.accept('F'):
		return s.parseFleet(name)
	case s.accept('W'):
		return s.parseWorld(name)
	case s.accept('C'):
		return s.parseConvertMigration()
	case s.accept('Z'):
		o := &Order{Kind: OrderNoAmbush}
		if n, ok := s.number(); ok {
			o.World = n
		}
		return o, nil
	case s.accept('V'):
		return s.parseViewArtifact()
	case s.accept('A'):
		return s.parseRelation(name, RelAlly)
	case s.accept('L'):
		return s.parseRelation(name, RelLoader)
	case s.accept('X'):
		return s.parseRelation(name, RelUnloader)
	case s.accept('J'):
		return s.parseRelation(name, RelJihad)
	case s.accept('N'):
		return s.parseRelation(name, RelUnally)
	}
	return nil, parseErr(s.input, "unknown command")
}

func (s *scanner) parseRelation(name string, kind RelationKind) (*Order, error) {
	if name == "" {
		return nil, parseErr(s.input, "relation declarations take the form %s=<player>", s.text[:1])
	}
	return &Order{Kind: OrderDeclareRelation, Relation: kind, Name: name}, nil
}

func (s *scanner) parseFleet(name string) (*Order, error) {
	fleet, err := s.requireNumber("fleet number after F")
	if err != nil {
		return nil, err
	}
	switch {
	case s.peek() == 'W':
		o := &Order{Kind: OrderMove, Fleet: fleet}
		for s.accept('W') {
			w, err := s.requireNumber("world number after W")
			if err != nil {
				return nil, err
			}
			o.Path = append(o.Path, w)
		}
		return o, nil

	case s.accept('T'):
		if s.accept('A') {
			return s.parseArtifactTransfer(&Order{Kind: OrderTransferArtifact, Fleet: fleet})
		}
		amount, err := s.requireNumber("ship count after T")
		if err != nil {
			return nil, err
		}
		o := &Order{Kind: OrderTransferShips, Fleet: fleet, Amount: amount}
		switch {
		case s.accept('F'):
			o.TKind = TargetFleet
			if o.Target, err = s.requireNumber("fleet number after F"); err != nil {
				return nil, err
			}
		case s.accept('I'):
			o.TKind = TargetIShips
		case s.accept('P'):
			o.TKind = TargetPShips
		default:
			return nil, parseErr(s.input, "transfer destination must be I, P or F<n>")
		}
		return o, nil

	case s.accept('L'):
		o := &Order{Kind: OrderLoadCargo, Fleet: fleet}
		if n, ok := s.number(); ok {
			o.Amount, o.AmountGiven = n, true
		}
		return o, nil

	case s.accept('U'):
		o := &Order{Kind: OrderUnloadCargo, Fleet: fleet}
		if s.accept('C') {
			o.Kind = OrderUnloadConsumerGoods
		}
		if n, ok := s.number(); ok {
			o.Amount, o.AmountGiven = n, true
		}
		return o, nil

	case s.accept('J'):
		o := &Order{Kind: OrderJettisonCargo, Fleet: fleet}
		if n, ok := s.number(); ok {
			o.Amount, o.AmountGiven = n, true
		}
		return o, nil

	case s.accept('A'):
		o := &Order{Kind: OrderAmbush, Fleet: fleet}
		switch {
		case s.accept('F'):
			o.Kind = OrderFireAtFleet
			t, err := s.requireNumber("fleet number after F")
			if err != nil {
				return nil, err
			}
			o.Target = t
		case s.accept('I'):
			o.Kind, o.TKind = OrderFireAtTarget, TargetIShips
		case s.accept('P'):
			o.Kind, o.TKind = OrderFireAtTarget, TargetPShips
		case s.accept('H'):
			o.Kind, o.TKind = OrderFireAtTarget, TargetHome
		case s.accept('C'):
			o.Kind, o.TKind = OrderFireAtTarget, TargetConverts
		}
		return o, nil

	case s.accept('C'):
		o := &Order{Kind: OrderConditionalFire, Fleet: fleet}
		switch {
		case s.accept('F'):
			o.TKind = TargetFleet
			t, err := s.requireNumber("fleet number after F")
			if err != nil {
				return nil, err
			}
			o.Target = t
		case s.accept('I'):
			o.TKind = TargetIShips
		case s.accept('P'):
			o.TKind = TargetPShips
		case s.accept('H'):
			o.TKind = TargetHome
		case s.accept('C'):
			o.TKind = TargetConverts
		default:
			return nil, parseErr(s.input, "conditional fire needs a target: F<n>, I, P, H or C")
		}
		return o, nil

	case s.accept('G'):
		if name == "" {
			return nil, parseErr(s.input, "fleet gifts take the form F<n>G=<player>")
		}
		return &Order{Kind: OrderGiftFleet, Fleet: fleet, Name: name}, nil

	case s.accept('B'):
		return &Order{Kind: OrderBuildPBB, Fleet: fleet}, nil

	case s.accept('D'):
		return &Order{Kind: OrderDropPBB, Fleet: fleet}, nil

	case s.accept('R'):
		amount, err := s.requireNumber("robot count after R")
		if err != nil {
			return nil, err
		}
		return &Order{Kind: OrderRobotAttack, Fleet: fleet, Amount: amount}, nil

	case s.accept('P'):
		amount, err := s.requireNumber("plunder amount after P")
		if err != nil {
			return nil, err
		}
		return &Order{Kind: OrderPlunder, Fleet: fleet, Amount: amount}, nil

	case s.accept('Q'):
		return &Order{Kind: OrderPeace, Fleet: fleet}, nil

	case s.accept('X'):
		return &Order{Kind: OrderNotPeace, Fleet: fleet}, nil
	}
	return nil, parseErr(s.input, "unknown fleet order")
}

func (s *scanner) parseWorld(name string) (*Order, error) {
	world, err := s.requireNumber("world number after W")
	if err != nil {
		return nil, err
	}
	switch {
	case s.accept('B'):
		return s.parseBuild(world)
	case s.accept('I'):
		// Older build syntax W<n>I<n><what>; normalizes to the B form.
		return s.parseBuild(world)
	case s.accept('M'):
		amount, err := s.requireNumber("migrant count after M")
		if err != nil {
			return nil, err
		}
		if !s.accept('W') {
			return nil, parseErr(s.input, "migration needs a destination: W<n>M<n>W<n>")
		}
		dest, err := s.requireNumber("world number after W")
		if err != nil {
			return nil, err
		}
		return &Order{Kind: OrderMigrate, World: world, Amount: amount, Target: dest}, nil
	case s.accept('G'):
		if name == "" {
			return nil, parseErr(s.input, "world gifts take the form W<n>G=<player>")
		}
		return &Order{Kind: OrderGiftWorld, World: world, Name: name}, nil
	case s.accept('S'):
		amount, err := s.requireNumber("ship count after S")
		if err != nil {
			return nil, err
		}
		return &Order{Kind: OrderScrapShips, World: world, Amount: amount}, nil
	case s.accept('T'):
		if !s.accept('A') {
			return nil, parseErr(s.input, "unknown world order")
		}
		return s.parseArtifactTransfer(&Order{Kind: OrderTransferArtifact, World: world, FromWorld: true})
	case s.accept('X'):
		return &Order{Kind: OrderProbe, World: world}, nil
	}
	return nil, parseErr(s.input, "unknown world order")
}

func (s *scanner) parseBuild(world int) (*Order, error) {
	amount, err := s.requireNumber("build count")
	if err != nil {
		return nil, err
	}
	o := &Order{World: world, Amount: amount}
	switch {
	case s.acceptWord("IND"):
		o.Kind = OrderBuildIndustry
	case s.acceptWord("LIMIT"):
		o.Kind = OrderBuildLimit
	case s.acceptWord("ROBOT"):
		o.Kind = OrderBuildRobots
	case s.accept('I'):
		o.Kind = OrderBuildIShips
	case s.accept('P'):
		o.Kind = OrderBuildPShips
	case s.accept('F'):
		o.Kind = OrderBuildToFleet
		if o.Fleet, err = s.requireNumber("fleet number after F"); err != nil {
			return nil, err
		}
	default:
		return nil, parseErr(s.input, "build target must be I, P, F<n>, IND, LIMIT or ROBOT")
	}
	return o, nil
}

func (s *scanner) parseConvertMigration() (*Order, error) {
	world, err := s.requireNumber("world number after C")
	if err != nil {
		return nil, err
	}
	if !s.accept('M') {
		return nil, parseErr(s.input, "convert migration takes the form C<n>M<n>W<n>")
	}
	amount, err := s.requireNumber("convert count after M")
	if err != nil {
		return nil, err
	}
	if !s.accept('W') {
		return nil, parseErr(s.input, "convert migration needs a destination world")
	}
	dest, err := s.requireNumber("world number after W")
	if err != nil {
		return nil, err
	}
	return &Order{Kind: OrderMigrateConverts, World: world, Amount: amount, Target: dest}, nil
}

func (s *scanner) parseArtifactTransfer(o *Order) (*Order, error) {
	id, err := s.requireNumber("artifact number after TA")
	if err != nil {
		return nil, err
	}
	o.Artifact = id
	switch {
	case s.accept('F'):
		o.TKind = TargetFleet
		if o.Target, err = s.requireNumber("fleet number after F"); err != nil {
			return nil, err
		}
	case s.accept('W'):
		o.TKind = TargetWorld
	default:
		return nil, parseErr(s.input, "artifact destination must be F<n> or W")
	}
	return o, nil
}

func (s *scanner) parseViewArtifact() (*Order, error) {
	id, err := s.requireNumber("artifact number after V")
	if err != nil {
		return nil, err
	}
	o := &Order{Kind: OrderViewArtifact, Artifact: id}
	switch {
	case s.accept('F'):
		o.TKind = TargetFleet
		if o.Target, err = s.requireNumber("fleet number after F"); err != nil {
			return nil, err
		}
	case s.accept('W'):
		o.TKind = TargetWorld
	}
	return o, nil
}
