package cmdutil

import (
	"log/syslog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyslogLvl_Set(t *testing.T) {
	cases := []struct {
		in      string
		want    SyslogLvl
		wantPri syslog.Priority
		wantErr bool
	}{
		{in: "INFO", want: LvlInfo, wantPri: syslog.LOG_INFO},
		{in: "warn", want: LvlWarning, wantPri: syslog.LOG_WARNING},
		{in: "3", want: LvlErr, wantPri: syslog.LOG_ERR},
		{in: "7", want: LvlDebug, wantPri: syslog.LOG_DEBUG},
		{in: " notice ", want: LvlNotice, wantPri: syslog.LOG_NOTICE},
		{in: "Error", want: LvlErr, wantPri: syslog.LOG_ERR},
		{in: "warning", want: LvlWarning, wantPri: syslog.LOG_WARNING},
		{in: "0", want: LvlEmerg, wantPri: syslog.LOG_EMERG},
		{in: "loud", wantErr: true},
		{in: "42", wantErr: true},
		{in: "-1", wantErr: true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.in, func(t *testing.T) {
			var lvl SyslogLvl
			err := lvl.Set(tc.in)
			if tc.wantErr {
				require.ErrorIs(t, err, ErrInvalidSyslogString)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, lvl)
			assert.Equal(t, string(tc.want), lvl.String())
			assert.Equal(t, tc.wantPri, lvl.Priority())
		})
	}
}

func TestSyslogLvl_Priority(t *testing.T) {
	var unset *SyslogLvl
	assert.Equal(t, syslog.LOG_INFO, unset.Priority())

	empty := SyslogLvl("")
	assert.Equal(t, syslog.LOG_INFO, empty.Priority())

	for pri, lvl := range syslogLevels {
		lvl := lvl
		assert.Equal(t, syslog.Priority(pri), lvl.Priority(), lvl)
	}
}
