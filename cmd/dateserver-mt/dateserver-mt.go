// package main cmd/dateserver-mt/dateserver-mt.go
package main

import (
	cc "github.com/ivanpirog/coloredcobra"

	"github.com/skycoin/dateserver"
	"github.com/skycoin/dateserver/cmd/internal/servecmd"
)

func main() {
	rootCmd := servecmd.New("dateserver-mt", "Date server starting one goroutine per connection", dateserver.StrategyUnbounded)

	cc.Init(&cc.Config{
		RootCmd:         rootCmd,
		Headings:        cc.HiBlue + cc.Bold,
		Commands:        cc.HiBlue + cc.Bold,
		CmdShortDescr:   cc.HiBlue,
		Example:         cc.HiBlue + cc.Italic,
		ExecName:        cc.HiBlue + cc.Bold,
		Flags:           cc.HiBlue + cc.Bold,
		FlagsDescr:      cc.HiBlue,
		NoExtraNewlines: true,
		NoBottomNewline: true,
	})
	servecmd.Execute(rootCmd)
}
