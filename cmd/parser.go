package cmd

import (
	"fmt"
	"strconv"
	"strings"
)

// Parser parses user-defined arguments into flags
type Parser struct {
	flagSet *CommandFlagSet
	long    map[string]string
	short   map[string]string
}

func NewParser(flagSet *CommandFlagSet) *Parser {
	if flagSet == nil {
		flagSet = &CommandFlagSet{Flags: make(map[string]*CommandFlag)}
	}

	cp := &Parser{
		flagSet: flagSet,
		long:    make(map[string]string),
		short:   make(map[string]string),
	}
	for flagName, flag := range flagSet.Flags {
		cp.long[flag.Name] = flagName
		if flag.Short != "" {
			cp.short[flag.Short] = flagName
		}
	}
	return cp
}

func (cp *Parser) Parse(raw []string) (*CommandArgs, error) {
	args := &CommandArgs{
		Flags: make(map[string]any),
		Raw:   raw,
	}

	for flagName, flag := range cp.flagSet.Flags {
		if flag.Default != nil {
			args.Flags[flagName] = flag.Default
		}
	}

	for i := 0; i < len(raw); i++ {
		arg := raw[i]

		if arg == "--" {
			args.Args = append(args.Args, raw[i+1:]...)
			break
		}

		var (
			consumed bool
			err      error
		)
		switch {
		case strings.HasPrefix(arg, "--"):
			consumed, err = cp.parseLong(args, arg, raw[i+1:])
		case strings.HasPrefix(arg, "-") && len(arg) > 1 && !isNumber(arg):
			consumed, err = cp.parseShort(args, arg[1:], raw[i+1:])
		default:
			args.Args = append(args.Args, arg)
		}
		if err != nil {
			return nil, err
		}
		if consumed {
			i++
		}
	}

	for flagName, flag := range cp.flagSet.Flags {
		if !flag.Required {
			continue
		}
		if _, ok := args.Flags[flagName]; !ok {
			if flag.Short != "" {
				return nil, fmt.Errorf("required flag: -%s / --%s", flag.Short, flag.Name)
			}
			return nil, fmt.Errorf("required flag: --%s", flag.Name)
		}
	}

	return args, nil
}

// parseLong handles "--name", "--name=value" and "--name value".
// It reports whether the following argument was consumed as the value.
func (cp *Parser) parseLong(args *CommandArgs, arg string, rest []string) (bool, error) {
	key, value, hasValue := parseLongFlag(arg)
	flagName, exists := cp.long[key]
	if !exists {
		return false, fmt.Errorf("unknown flag: --%s", key)
	}

	flag := cp.flagSet.Flags[flagName]
	switch {
	case flag.Type == FlagBool && hasValue:
		return false, cp.set(args, flagName, value)
	case flag.Type == FlagBool:
		args.Flags[flagName] = true
		return false, nil
	case hasValue:
		return false, cp.set(args, flagName, value)
	case len(rest) > 0 && !isFlag(rest[0]):
		return true, cp.set(args, flagName, rest[0])
	default:
		return false, fmt.Errorf("flag --%s requires a value", key)
	}
}

// parseShort handles grouped shorthands such as "-ab", "-d3" and "-d 3".
func (cp *Parser) parseShort(args *CommandArgs, shortFlags string, rest []string) (bool, error) {
	for j, shortChar := range shortFlags {
		shortStr := string(shortChar)
		flagName, exists := cp.short[shortStr]
		if !exists {
			return false, fmt.Errorf("unknown flag: -%s", shortStr)
		}

		flag := cp.flagSet.Flags[flagName]
		if flag.Type == FlagBool {
			args.Flags[flagName] = true
			continue
		}

		if j+1 < len(shortFlags) {
			return false, cp.set(args, flagName, shortFlags[j+1:])
		}
		if len(rest) > 0 && !isFlag(rest[0]) {
			return true, cp.set(args, flagName, rest[0])
		}
		return false, fmt.Errorf("flag -%s requires a value", shortStr)
	}
	return false, nil
}

func (cp *Parser) set(args *CommandArgs, flagName, value string) error {
	flag := cp.flagSet.Flags[flagName]
	v, err := coerce(value, flag.Type)
	if err != nil {
		return fmt.Errorf("invalid value for --%s: %w", flag.Name, err)
	}
	args.Flags[flagName] = v
	return nil
}

func parseLongFlag(arg string) (key, value string, hasValue bool) {
	arg = strings.TrimPrefix(arg, "--")
	if idx := strings.Index(arg, "="); idx >= 0 {
		return arg[:idx], arg[idx+1:], true
	}
	return arg, "", false
}

func isFlag(arg string) bool {
	return strings.HasPrefix(arg, "-") && len(arg) > 1 && !isNumber(arg)
}

// isNumber keeps negative numbers usable as positional arguments.
func isNumber(arg string) bool {
	_, err := strconv.ParseInt(arg, 10, 64)
	return err == nil
}

func coerce(value string, typeStr string) (any, error) {
	switch typeStr {
	case FlagInt:
		return strconv.ParseInt(value, 10, 64)
	case FlagBool:
		return strconv.ParseBool(value)
	default:
		return value, nil
	}
}
