/*
   Copyright 2018-2019 Banco Bilbao Vizcaya Argentaria, S.A.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package cmd

import (
	"context"
	"fmt"
	"net/http"

	"github.com/octago/sflags/gen/gpflag"
	"github.com/spf13/cobra"

	"github.com/bbva/merkletree/api/metricshttp"
	"github.com/bbva/merkletree/merkle"
	"github.com/bbva/merkletree/testutils/workload"
	"github.com/bbva/merkletree/util"
)

func newWorkloadCommand(ctx *cmdContext) *cobra.Command {
	conf := workload.DefaultConfig()
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "workload",
		Short: "Benchmark insertion and proofs against the configured store",
		Long:  workload.WorkloadHelp,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if metricsAddr != "" {
				stop, err := serveMetrics(metricsAddr, ctx)
				if err != nil {
					return err
				}
				defer stop()
			}

			runCtx, cancel := util.AwaitTermSignal(context.Background())
			defer cancel()

			return ctx.withTree(func(tree *merkle.Tree) error {
				w := workload.NewWorkload(*conf, tree, ctx.log.Named("workload"))
				report, err := w.Run(runCtx)
				if report != nil {
					fmt.Fprintln(cmd.OutOrStdout(), report)
				}
				return err
			})
		},
	}

	if err := gpflag.ParseTo(conf, cmd.Flags()); err != nil {
		panic(fmt.Sprintf("Unable to parse workload config: %v", err))
	}
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve prometheus metrics on this address while running")

	return cmd
}

func serveMetrics(addr string, ctx *cmdContext) (func(), error) {
	mux, err := metricshttp.NewMetricsHTTP(workload.Collectors()...)
	if err != nil {
		return nil, err
	}
	srv := &http.Server{Addr: addr, Handler: mux}

	ctx.log.Infof("Starting metrics server at %s", addr)
	go func() {
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			ctx.log.Errorf("Can't start metrics HTTP server: %s", err)
		}
	}()

	return func() {
		_ = srv.Shutdown(context.Background())
	}, nil
}
