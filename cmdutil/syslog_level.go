package cmdutil

import (
	"errors"
	"fmt"
	"log/syslog"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

// ErrInvalidSyslogString occurs when a syslog level is neither a known name
// nor a known priority number.
var ErrInvalidSyslogString = errors.New("invalid syslog string")

// SyslogLvl is a syslog severity name. It implements pflag.Value.
type SyslogLvl string

// Syslog levels.
const (
	LvlEmerg   SyslogLvl = "EMERG"
	LvlAlert   SyslogLvl = "ALERT"
	LvlCrit    SyslogLvl = "CRIT"
	LvlErr     SyslogLvl = "ERR"
	LvlWarning SyslogLvl = "WARN"
	LvlNotice  SyslogLvl = "NOTICE"
	LvlInfo    SyslogLvl = "INFO"
	LvlDebug   SyslogLvl = "DEBUG"
)

var _ pflag.Value = (*SyslogLvl)(nil)

// syslogLevels is indexed by syslog priority.
var syslogLevels = [...]SyslogLvl{
	syslog.LOG_EMERG:   LvlEmerg,
	syslog.LOG_ALERT:   LvlAlert,
	syslog.LOG_CRIT:    LvlCrit,
	syslog.LOG_ERR:     LvlErr,
	syslog.LOG_WARNING: LvlWarning,
	syslog.LOG_NOTICE:  LvlNotice,
	syslog.LOG_INFO:    LvlInfo,
	syslog.LOG_DEBUG:   LvlDebug,
}

// Alternative spellings accepted by Set.
var syslogAliases = map[string]SyslogLvl{
	"EMERGENCY": LvlEmerg,
	"CRITICAL":  LvlCrit,
	"ERROR":     LvlErr,
	"WARNING":   LvlWarning,
}

func priorityOf(lvl SyslogLvl) (syslog.Priority, bool) {
	for pri, l := range syslogLevels {
		if l == lvl {
			return syslog.Priority(pri), true
		}
	}
	return 0, false
}

func levelOf(str string) (SyslogLvl, error) {
	name := strings.ToUpper(str)
	if _, ok := priorityOf(SyslogLvl(name)); ok {
		return SyslogLvl(name), nil
	}
	if lvl, ok := syslogAliases[name]; ok {
		return lvl, nil
	}

	pri, err := strconv.Atoi(str)
	if err != nil {
		return "", fmt.Errorf("%w '%s': %v", ErrInvalidSyslogString, str, err)
	}
	if pri < 0 || pri >= len(syslogLevels) {
		return "", fmt.Errorf("%w '%s': priority out of range", ErrInvalidSyslogString, str)
	}
	return syslogLevels[pri], nil
}

// String implements pflag.Value.
func (l *SyslogLvl) String() string {
	if l == nil {
		return ""
	}
	return string(*l)
}

// Set implements pflag.Value. It accepts a level name or alias in any case, or
// the numeric priority of a level.
func (l *SyslogLvl) Set(str string) error {
	lvl, err := levelOf(strings.TrimSpace(str))
	if err != nil {
		return err
	}
	*l = lvl
	return nil
}

// Type implements pflag.Value.
func (l *SyslogLvl) Type() string {
	return "SyslogLvl"
}

// Priority returns the syslog priority of the level. Unset and unknown levels
// have priority LOG_INFO.
func (l *SyslogLvl) Priority() syslog.Priority {
	if l == nil {
		return syslog.LOG_INFO
	}
	if pri, ok := priorityOf(*l); ok {
		return pri
	}
	return syslog.LOG_INFO
}
