package token

// Hand-authored name table for Type.String. Unlike `stringer -type=Type`
// output, keywords and operators print as their source spelling ("let",
// "->"); the other classes print as their constant names.
// Kept in sync by hand whenever the Type block in token.go changes.

var typeNames = [...]string{
	ILLEGAL:        "ILLEGAL",
	EOF:            "EOF",
	IDENT:          "IDENT",
	NUMBER:         "NUMBER",
	HEX_BYTES:      "HEX_BYTES",
	ADDRESS:        "ADDRESS",
	STRING:         "STRING",
	LET:            "let",
	MUT:            "mut",
	RETURN:         "return",
	IF:             "if",
	ELSE:           "else",
	WHILE:          "while",
	FOR:            "for",
	EMIT:           "emit",
	EVENT:          "event",
	ENUM:           "enum",
	CONST:          "const",
	PUB:            "pub",
	FN:             "fn",
	EXTENDS:        "extends",
	IMPLEMENTS:     "implements",
	TRUE:           "true",
	FALSE:          "false",
	PANIC:          "panic!",
	ASSERT:         "assert!",
	CONTRACT:       "Contract",
	ABSTRACT:       "Abstract",
	INTERFACE:      "Interface",
	TX_SCRIPT:      "TxScript",
	ASSET_SCRIPT:   "AssetScript",
	PLUS:           "+",
	MINUS:          "-",
	STAR:           "*",
	STAR_STAR:      "**",
	PIPE_STAR_PIPE: "|**|",
	SLASH:          "/",
	PERCENT:        "%",
	SHL:            "<<",
	SHR:            ">>",
	AMP:            "&",
	PIPE:           "|",
	CARET:          "^",
	BANG:           "!",
	BANG_EQUAL:     "!=",
	EQUAL:          "=",
	EQUAL_EQUAL:    "==",
	LESS:           "<",
	LESS_EQUAL:     "<=",
	GREATER:        ">",
	GREATER_EQUAL:  ">=",
	AND_AND:        "&&",
	OR_OR:          "||",
	ARROW:          "->",
	FAT_ARROW:      "=>",
	PLUS_EQUAL:     "+=",
	MINUS_EQUAL:    "-=",
	STAR_EQUAL:     "*=",
	SLASH_EQUAL:    "/=",
	PERCENT_EQUAL:  "%=",
	COMMA:          ",",
	DOT:            ".",
	SEMICOLON:      ";",
	COLON:          ":",
	DOUBLE_COLON:   "::",
	UNDERSCORE:     "_",
	LEFT_PAREN:     "(",
	RIGHT_PAREN:    ")",
	LEFT_BRACE:     "{",
	RIGHT_BRACE:    "}",
	LEFT_BRACKET:   "[",
	RIGHT_BRACKET:  "]",
	AT:             "@",
	COMMENT:        "COMMENT",
	DOC_COMMENT:    "DOC_COMMENT",
}

func (t Type) String() string {
	if int(t) >= 0 && int(t) < len(typeNames) && typeNames[t] != "" {
		return typeNames[t]
	}
	return "Type(" + itoa(int(t)) + ")"
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
