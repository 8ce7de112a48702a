package ledger

// Flag conjunto de roles con que se vio una fecha (2 bits).
type Flag uint8

const (
	FlagNone    Flag = 0
	FlagStarted Flag = 1 << 0 // vista como fecha de activación
	FlagEnded   Flag = 1 << 1 // vista como fecha de desactivación
	FlagBoth         = FlagStarted | FlagEnded
)

// Has indica si f contiene todos los bits de o.
func (f Flag) Has(o Flag) bool { return o != FlagNone && f&o == o }

func (f Flag) String() string {
	switch f {
	case FlagNone:
		return "NONE"
	case FlagStarted:
		return "START"
	case FlagEnded:
		return "END"
	case FlagBoth:
		return "BOTH"
	}
	return "INVALID"
}

// Role papel de una fecha dentro de un registro.
type Role uint8

const (
	RoleStart Role = iota
	RoleEnd
)

// Flag devuelve el bit correspondiente al rol.
func (r Role) Flag() Flag {
	if r == RoleEnd {
		return FlagEnded
	}
	return FlagStarted
}

func (r Role) String() string {
	if r == RoleEnd {
		return "desactivación"
	}
	return "activación"
}
