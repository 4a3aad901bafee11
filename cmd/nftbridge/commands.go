package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/log"
	"github.com/google/uuid"
	"github.com/holiman/uint256"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/clydemeng/nftbridge/core"
	"github.com/clydemeng/nftbridge/core/types"
	"github.com/clydemeng/nftbridge/executor/native"
	"github.com/clydemeng/nftbridge/executor/remote"
)

var (
	kindFlag = &cli.StringFlag{
		Name:  "kind",
		Usage: "Code kind to deploy (see the kinds listed at startup)",
		Value: native.KindPSP34,
	}
	codeFlag = &cli.StringFlag{
		Name:  "code",
		Usage: "File holding the contract code, for kinds that need it",
	}
	saltFlag = &cli.StringFlag{
		Name:  "salt",
		Usage: "Hex salt mixed into the contract address",
	}
	stopOnFailureFlag = &cli.BoolFlag{
		Name:  "stop-on-failure",
		Usage: "Abort the batch at the first failed operation",
	}

	deployCommand = &cli.Command{
		Name:   "deploy",
		Usage:  "Deploy a collection contract to the local executor",
		Flags:  []cli.Flag{fromFlag, kindFlag, codeFlag, saltFlag},
		Action: deploy,
	}
	fundCommand = &cli.Command{
		Name:      "fund",
		Usage:     "Set the balance of an account on the local executor",
		ArgsUsage: "<account> <amount>",
		Action:    fund,
	}
	ownerCommand = &cli.Command{
		Name:      "owner",
		Usage:     "Print the owner of an item",
		ArgsUsage: "<collection> <item>",
		Flags:     []cli.Flag{fromFlag},
		Action:    owner,
	}
	mintCommand = &cli.Command{
		Name:      "mint",
		Usage:     "Mint an item into an account, which also signs the call",
		ArgsUsage: "<collection> <item> <owner>",
		Action:    mint,
	}
	burnCommand = &cli.Command{
		Name:      "burn",
		Usage:     "Burn an item",
		ArgsUsage: "<collection> <item>",
		Flags:     []cli.Flag{fromFlag},
		Action:    burn,
	}
	transferCommand = &cli.Command{
		Name:      "transfer",
		Usage:     "Transfer an item",
		ArgsUsage: "<collection> <item> <destination>",
		Flags:     []cli.Flag{fromFlag},
		Action:    transfer,
	}
	runCommand = &cli.Command{
		Name:      "run",
		Usage:     "Apply a TOML batch of operations and print the receipts",
		ArgsUsage: "<batch.toml>",
		Flags:     []cli.Flag{stopOnFailureFlag},
		Action:    runBatch,
	}
	serveCommand = &cli.Command{
		Name:   "serve",
		Usage:  "Serve the local executor over gRPC",
		Flags:  []cli.Flag{listenFlag},
		Action: serve,
	}
)

// withNode opens the configured node around fn.
func withNode(ctx *cli.Context, fn func(*node) error) error {
	cfg, err := makeConfig(ctx)
	if err != nil {
		return err
	}
	n, err := openNode(cfg)
	if err != nil {
		return err
	}
	defer n.Close()
	return fn(n)
}

func needArgs(ctx *cli.Context, n int) error {
	if ctx.NArg() != n {
		return fmt.Errorf("%s: want %d arguments, have %d (usage: %s)", ctx.Command.Name, n, ctx.NArg(), ctx.Command.ArgsUsage)
	}
	return nil
}

func parseAccount(s string) (types.AccountID, error) {
	return types.HexToAccountID(s)
}

func parseItem(s string) (types.ItemID, error) {
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid item %q: %w", s, err)
	}
	return types.ItemID(v), nil
}

// itemArgs parses the leading <collection> <item> pair.
func itemArgs(ctx *cli.Context) (types.CollectionID, types.ItemID, error) {
	c, err := parseAccount(ctx.Args().Get(0))
	if err != nil {
		return types.CollectionID{}, 0, err
	}
	item, err := parseItem(ctx.Args().Get(1))
	return c, item, err
}

func deploy(ctx *cli.Context) error {
	from, err := parseAccount(ctx.String(fromFlag.Name))
	if err != nil {
		return err
	}
	var code, salt []byte
	if path := ctx.String(codeFlag.Name); path != "" {
		if code, err = os.ReadFile(path); err != nil {
			return err
		}
	}
	if s := ctx.String(saltFlag.Name); s != "" {
		if salt, err = hexutil.Decode(s); err != nil {
			return fmt.Errorf("invalid salt: %w", err)
		}
	}
	return withNode(ctx, func(n *node) error {
		exec, err := n.native()
		if err != nil {
			return err
		}
		addr, err := exec.Deploy(from, ctx.String(kindFlag.Name), code, salt)
		if err != nil {
			return err
		}
		fmt.Fprintln(ctx.App.Writer, addr.Hex())
		return nil
	})
}

func fund(ctx *cli.Context) error {
	if err := needArgs(ctx, 2); err != nil {
		return err
	}
	who, err := parseAccount(ctx.Args().Get(0))
	if err != nil {
		return err
	}
	amount, err := uint256.FromDecimal(ctx.Args().Get(1))
	if err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}
	return withNode(ctx, func(n *node) error {
		exec, err := n.native()
		if err != nil {
			return err
		}
		return exec.SetBalance(who, amount)
	})
}

func owner(ctx *cli.Context) error {
	if err := needArgs(ctx, 2); err != nil {
		return err
	}
	c, item, err := itemArgs(ctx)
	if err != nil {
		return err
	}
	from, err := parseAccount(ctx.String(fromFlag.Name))
	if err != nil {
		return err
	}
	return withNode(ctx, func(n *node) error {
		who, ok, err := n.adapter.Owner(from, c, item, n.cfg.Budget)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(ctx.App.Writer, "none")
			return nil
		}
		fmt.Fprintln(ctx.App.Writer, who.Hex())
		return nil
	})
}

func mint(ctx *cli.Context) error {
	if err := needArgs(ctx, 3); err != nil {
		return err
	}
	c, item, err := itemArgs(ctx)
	if err != nil {
		return err
	}
	to, err := parseAccount(ctx.Args().Get(2))
	if err != nil {
		return err
	}
	return withNode(ctx, func(n *node) error {
		return n.adapter.MintInto(c, item, to, n.cfg.Budget)
	})
}

func burn(ctx *cli.Context) error {
	if err := needArgs(ctx, 2); err != nil {
		return err
	}
	c, item, err := itemArgs(ctx)
	if err != nil {
		return err
	}
	from, err := parseAccount(ctx.String(fromFlag.Name))
	if err != nil {
		return err
	}
	return withNode(ctx, func(n *node) error {
		return n.adapter.Burn(c, item, from, n.cfg.Budget)
	})
}

func transfer(ctx *cli.Context) error {
	if err := needArgs(ctx, 3); err != nil {
		return err
	}
	c, item, err := itemArgs(ctx)
	if err != nil {
		return err
	}
	dest, err := parseAccount(ctx.Args().Get(2))
	if err != nil {
		return err
	}
	from, err := parseAccount(ctx.String(fromFlag.Name))
	if err != nil {
		return err
	}
	return withNode(ctx, func(n *node) error {
		return n.adapter.Transfer(from, c, item, dest, n.cfg.Budget)
	})
}

func runBatch(ctx *cli.Context) error {
	if err := needArgs(ctx, 1); err != nil {
		return err
	}
	batch, err := core.LoadBatch(ctx.Args().Get(0))
	if err != nil {
		return err
	}
	return withNode(ctx, func(n *node) error {
		if exec, err := n.native(); err == nil {
			exec.Prefetch(batch.Collections()...)
		}
		p := core.NewProcessor(n.adapter, n.cfg.Budget)
		p.StopOnFailure = batch.StopOnFailure || ctx.Bool(stopOnFailureFlag.Name)
		id := uuid.NewString()
		log.Info("Running batch", "id", id, "file", ctx.Args().Get(0), "ops", len(batch.Operations), "engine", n.adapter.Engine())
		receipts, err := p.Process(batch.Operations)
		log.Debug("Batch done", "id", id, "receipts", len(receipts))
		printReceipts(ctx, receipts)
		return err
	})
}

func printReceipts(ctx *cli.Context, receipts []*core.Receipt) {
	table := tablewriter.NewWriter(ctx.App.Writer)
	table.SetHeader([]string{"#", "Kind", "Status", "Owner", "Reason", "Elapsed"})
	for _, r := range receipts {
		status, ownerCol, reason := "ok", "", ""
		if r.Failed() {
			status, reason = "failed", r.Reason.String()
		}
		if r.Kind == core.OpOwner && !r.Failed() {
			ownerCol = "none"
			if r.HasOwner {
				ownerCol = r.Owner.TerminalString()
			}
		}
		table.Append([]string{strconv.Itoa(r.Index), string(r.Kind), status, ownerCol, reason, r.Elapsed.String()})
	}
	table.Render()
}

func serve(ctx *cli.Context) error {
	return withNode(ctx, func(n *node) error {
		exec, err := n.native()
		if err != nil {
			return err
		}
		lis, err := net.Listen("tcp", n.cfg.Serve.Listen)
		if err != nil {
			return err
		}
		defer lis.Close()

		srv := grpc.NewServer()
		remote.RegisterExecutorServer(srv, &remote.Server{Executor: exec})

		sigctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		g, gctx := errgroup.WithContext(sigctx)
		g.Go(func() error {
			log.Info("Executor server listening", "addr", lis.Addr(), "engine", exec.Engine(), "kinds", native.CodeKinds())
			if err := srv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			log.Info("Shutting down executor server")
			srv.GracefulStop()
			return nil
		})
		return g.Wait()
	})
}
