package config

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/sat20-labs/mempool-recorder/common"
)

var (
	SigInt          chan os.Signal
	sigIntFuncList  = []func(){}
	releaseFuncList = []func(){}
)

func InitSigInt() {
	count := 0
	SigInt = make(chan os.Signal, 100)
	signal.Notify(SigInt, os.Interrupt, syscall.SIGTERM)
	go func() {
		for {
			<-SigInt
			count++
			common.Log.Infof("Received SIGINT (CTRL+C), count %d, 3 times will force exit", count)
			if count >= 3 {
				ReleaseRes()
				os.Exit(1)
			} else if count == 1 {
				for index := range sigIntFuncList {
					go sigIntFuncList[index]()
				}
			}
		}
	}()
}

func RegistSigIntFunc(callback func()) {
	sigIntFuncList = append(sigIntFuncList, callback)
}

// RegistReleaseFunc registers cleanup run by ReleaseRes, last registered first.
func RegistReleaseFunc(callback func()) {
	releaseFuncList = append(releaseFuncList, callback)
}

func ReleaseRes() {
	for i := len(releaseFuncList) - 1; i >= 0; i-- {
		releaseFuncList[i]()
	}
	releaseFuncList = nil
}
