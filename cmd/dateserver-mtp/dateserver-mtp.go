// package main cmd/dateserver-mtp/dateserver-mtp.go
package main

import (
	cc "github.com/ivanpirog/coloredcobra"

	"github.com/skycoin/dateserver"
	"github.com/skycoin/dateserver/cmd/internal/servecmd"
)

func main() {
	rootCmd := servecmd.New("dateserver-mtp", "Date server running connections on a pool of 20 workers", dateserver.StrategyBounded)

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
