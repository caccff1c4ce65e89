package main

import (
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/Layr-Labs/sui-operator-go/internal/keyGenerator/localKeyGenerator"
	"github.com/Layr-Labs/sui-operator-go/pkg/hook"
	"github.com/Layr-Labs/sui-operator-go/pkg/jsonrpc"
	"github.com/Layr-Labs/sui-operator-go/pkg/keystore"
	"github.com/Layr-Labs/sui-operator-go/pkg/payload"
)

var commands = []*cli.Command{
	{
		Name:  "create-account",
		Usage: "Generate new ed25519 accounts",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "count",
				Usage: "Number of accounts to generate",
				Value: 1,
			},
			&cli.BoolFlag{
				Name:  "save",
				Usage: "Append the new accounts to the keystore",
			},
			&cli.BoolFlag{
				Name:  "print-secret",
				Usage: "Also print each hex secret key, usable as --secret-key",
			},
		},
		Action: createAccountCommand,
	},
	{
		Name:  "address",
		Usage: "Print the address of the configured account",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "public-key",
				Usage: "Also print the base64 public key",
			},
		},
		Action: addressCommand,
	},
	{
		Name:  "balances",
		Usage: "Print every coin balance of an address",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "owner",
				Usage: "Address to inspect (default: the configured account)",
			},
		},
		Action: balancesCommand,
	},
	{
		Name:  "objects",
		Usage: "List owned objects, optionally filtered by package, module or struct type",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "owner",
				Usage: "Address to inspect (default: the configured account)",
			},
			&cli.BoolFlag{
				Name:  "all-accounts",
				Usage: "Inspect every account in the keystore",
			},
			&cli.StringFlag{
				Name:  "package",
				Usage: "Only objects whose type is defined in this package",
			},
			&cli.StringFlag{
				Name:  "module",
				Usage: "Only objects whose type is defined in this module of --package",
			},
			&cli.StringFlag{
				Name:  "struct-type",
				Usage: "Only objects of this type, e.g. 0x2::coin::Coin<0x2::sui::SUI>",
			},
		},
		Action: objectsCommand,
	},
	{
		Name:      "get-object",
		Usage:     "Fetch an object by id",
		ArgsUsage: "<object-id>",
		Action:    getObjectCommand,
	},
	{
		Name:  "faucet",
		Usage: "Request test SUI from the network faucet",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "recipient",
				Usage: "Address to fund (default: the configured account)",
			},
		},
		Action: faucetCommand,
	},
	{
		Name:  "transfer",
		Usage: "Transfer an object to another address",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "object",
				Usage:    "Object to transfer",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "recipient",
				Usage:    "Receiving address",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "gas",
				Usage: "Gas coin to pay with (default: first coin above the budget)",
			},
		},
		Action: transferCommand,
	},
	{
		Name:  "move-call",
		Usage: "Call a Move function once",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "target",
				Usage:    "Function to call as package::module::function",
				Required: true,
			},
			&cli.StringSliceFlag{
				Name:  "type-arg",
				Usage: "Move type argument, repeatable",
			},
			&cli.StringSliceFlag{
				Name:  "arg",
				Usage: "Move call argument, repeatable",
			},
		},
		Action: moveCallCommand,
	},
	{
		Name:  "publish",
		Usage: "Publish a compiled Move package",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "modules",
				Usage:    "JSON output of `sui move build --dump-bytecode-as-base64`",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "then-call",
				Usage: "module::function of the new package to call once it is published",
			},
		},
		Action: publishCommand,
	},
	{
		Name:   "hook",
		Usage:  "Call a Move function repeatedly, reusing one leased gas coin",
		Flags:  hookFlags,
		Action: hookCommand,
	},
}

func createAccountCommand(c *cli.Context) error {
	e, err := setup(c, false)
	if err != nil {
		return err
	}
	count := c.Int("count")
	if count <= 0 {
		return fmt.Errorf("count must be positive, got %d", count)
	}

	generator := localKeyGenerator.NewLocalKeyGenerator(e.logger)
	var wg sync.WaitGroup
	errs := make(chan error, count)
	for i := 0; i < count; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := generator.GenerateKey(c.Context, fmt.Sprintf("account-%d", i)); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	if err, ok := <-errs; ok {
		return err
	}

	accounts := generator.Accounts()
	for _, acct := range accounts {
		fmt.Printf("%s  %s\n", color.GreenString(acct.Address()), acct.KeystoreRecord())
		if c.Bool("print-secret") {
			fmt.Printf("  secret %s\n", color.RedString(acct.SecretHex()))
		}
	}

	if !c.Bool("save") {
		return nil
	}
	path := e.cfg.KeystorePath
	if path == "" {
		if path, err = keystore.DefaultPath(); err != nil {
			return err
		}
	}
	ks, err := keystore.Load(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		ks = keystore.NewKeyStore()
	}
	for _, acct := range accounts {
		if _, err := ks.Add(acct); err != nil {
			return err
		}
	}
	if err := ks.Save(path); err != nil {
		return err
	}
	fmt.Printf("Saved %d account(s) to %s\n", len(accounts), path)
	return nil
}

func addressCommand(c *cli.Context) error {
	e, err := setup(c, true)
	if err != nil {
		return err
	}
	fmt.Println(e.account.Address())
	if c.Bool("public-key") {
		fmt.Println(e.account.PublicKeyBase64())
	}
	return nil
}

func ownerOrAccount(c *cli.Context, flag string) (*env, string, error) {
	owner := c.String(flag)
	e, err := setup(c, owner == "")
	if err != nil {
		return nil, "", err
	}
	if owner == "" {
		owner = e.account.Address()
	}
	return e, owner, nil
}

func balancesCommand(c *cli.Context) error {
	e, owner, err := ownerOrAccount(c, "owner")
	if err != nil {
		return err
	}

	balances, err := e.client.GetAllBalances(c.Context, owner)
	if err != nil {
		return err
	}
	if len(balances) == 0 {
		fmt.Println(color.YellowString("no coins owned by %s", owner))
		return nil
	}
	for i := range balances {
		total, err := balances[i].Total()
		if err != nil {
			return err
		}
		fmt.Printf("%-40s %s (%d coins)\n", balances[i].CoinType, color.GreenString(total.Dec()), balances[i].CoinObjectCount)
	}
	return nil
}

// objectQuery turns the objects filter flags into a query. No filter lists everything.
func objectQuery(pkg, module, structType string) (*payload.ObjectResponseQuery, error) {
	switch {
	case structType != "":
		if pkg != "" || module != "" {
			return nil, fmt.Errorf("--struct-type cannot be combined with --package or --module")
		}
		return payload.QueryByStructType(structType), nil
	case module != "":
		if pkg == "" {
			return nil, fmt.Errorf("--module requires --package")
		}
		return payload.QueryByModule(pkg, module), nil
	case pkg != "":
		return payload.QueryByPackage(pkg), nil
	default:
		return nil, nil
	}
}

func objectsCommand(c *cli.Context) error {
	query, err := objectQuery(c.String("package"), c.String("module"), c.String("struct-type"))
	if err != nil {
		return err
	}

	var e *env
	var owners []string
	if c.Bool("all-accounts") {
		if e, err = setup(c, false); err != nil {
			return err
		}
		ks, err := keystore.Load(e.cfg.KeystorePath)
		if err != nil {
			return err
		}
		accounts, err := ks.Accounts()
		if err != nil {
			return err
		}
		for _, acct := range accounts {
			owners = append(owners, acct.Address())
		}
	} else {
		var owner string
		if e, owner, err = ownerOrAccount(c, "owner"); err != nil {
			return err
		}
		owners = []string{owner}
	}

	for _, owner := range owners {
		objects, err := e.client.ListOwnedObjects(c.Context, owner, query)
		if err != nil {
			return err
		}
		fmt.Printf("%s (%d objects)\n", color.GreenString(owner), len(objects))
		for i := range objects {
			if !objects[i].Exists() {
				continue
			}
			data := objects[i].Data
			fmt.Printf("  %s v%d %s\n", data.ObjectID, uint64(data.Version), data.Type)
		}
	}
	return nil
}

func getObjectCommand(c *cli.Context) error {
	objectID := c.Args().First()
	if objectID == "" {
		return fmt.Errorf("object id is required")
	}
	e, err := setup(c, false)
	if err != nil {
		return err
	}

	obj, err := e.client.GetObject(c.Context, objectID)
	if err != nil {
		return err
	}
	if !obj.Exists() {
		return fmt.Errorf("object %s not found: %s", objectID, string(obj.Error))
	}
	out, err := jsonrpc.Marshal(obj.Data)
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	fmt.Println(color.CyanString(e.client.Network().ObjectLink(objectID)))
	return nil
}

func faucetCommand(c *cli.Context) error {
	e, recipient, err := ownerOrAccount(c, "recipient")
	if err != nil {
		return err
	}

	resp, err := e.client.RequestFaucet(c.Context, recipient)
	if err != nil {
		return err
	}
	for _, obj := range resp.TransferredGasObjects {
		fmt.Printf("%s %d MIST -> %s\n", color.GreenString(obj.ID), obj.Amount, recipient)
	}
	return nil
}

func transferCommand(c *cli.Context) error {
	e, err := setup(c, true)
	if err != nil {
		return err
	}
	signer, err := e.signer()
	if err != nil {
		return err
	}

	owner := e.account.Address()
	gasCoin := c.String("gas")
	if gasCoin == "" {
		coin, err := e.client.GetAvailableGas(c.Context, owner, e.cfg.GasBudget)
		if err != nil {
			return err
		}
		gasCoin = coin.CoinObjectID
	}

	unsafe, err := e.client.UnsafeTransferObject(c.Context, owner, c.String("object"), gasCoin, e.cfg.GasBudget, c.String("recipient"))
	if err != nil {
		return err
	}
	resp, err := signer.SignAndExecute(c.Context, unsafe)
	if err != nil {
		return err
	}
	printDigest(e, resp.Digest)
	return nil
}

func moveCallCommand(c *cli.Context) error {
	target, err := hook.ParseTarget(c.String("target"))
	if err != nil {
		return err
	}
	e, err := setup(c, true)
	if err != nil {
		return err
	}
	caller, err := e.caller(target, nil)
	if err != nil {
		return err
	}

	res, err := caller.Call(c.Context, c.StringSlice("type-arg"), parseArgs(c.StringSlice("arg")))
	if err != nil {
		return err
	}
	printCallResult(e, res)
	return nil
}

func publishCommand(c *cli.Context) error {
	compiled, err := payload.LoadCompiledModules(c.String("modules"))
	if err != nil {
		return err
	}
	e, err := setup(c, true)
	if err != nil {
		return err
	}
	caller, err := e.caller(hook.Target{}, nil)
	if err != nil {
		return err
	}

	published, err := caller.Publish(c.Context, compiled)
	if err != nil {
		return err
	}
	fmt.Printf("package %s\n", color.GreenString(published.PackageID))
	printDigest(e, published.Digest)

	thenCall := c.String("then-call")
	if thenCall == "" {
		return nil
	}
	target, err := hook.ParseTarget(published.PackageID + "::" + thenCall)
	if err != nil {
		return err
	}
	if err := caller.SetTarget(target); err != nil {
		return err
	}
	res, err := caller.Call(c.Context, nil, nil)
	if err != nil {
		return err
	}
	printCallResult(e, res)
	return nil
}

func hookCommand(c *cli.Context) error {
	target, err := hook.ParseTarget(c.String("target"))
	if err != nil {
		return err
	}
	e, err := setup(c, true)
	if err != nil {
		return err
	}

	store, err := newPersistence(&e.cfg.Persistence, e.logger)
	if err != nil {
		return fmt.Errorf("failed to create persistence: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			e.logger.Sugar().Warnw("Failed to close persistence", "error", err)
		}
	}()
	if err := store.HealthCheck(); err != nil {
		return err
	}

	caller, err := e.caller(target, store)
	if err != nil {
		return err
	}
	if c.Bool("fresh-lease") {
		caller.InvalidateLease()
	}
	runner, err := hook.NewRunner(caller, e.cfg.HookRate, e.logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	results, runErr := runner.Run(ctx, c.Int("count"), c.StringSlice("type-arg"), parseArgs(c.StringSlice("arg")))
	for _, res := range results {
		printCallResult(e, res)
	}

	if c.Bool("history") {
		history, err := caller.History()
		if err != nil {
			return err
		}
		for _, rec := range history {
			fmt.Printf("%s %s %s::%s::%s %s\n",
				rec.ExecutedAt.Format("2006-01-02T15:04:05Z07:00"),
				rec.Digest, rec.Package, rec.Module, rec.Function, statusString(rec.Status))
		}
	}
	return runErr
}

func printDigest(e *env, digest string) {
	fmt.Printf("digest %s\n", color.GreenString(digest))
	fmt.Println(color.CyanString(e.client.Network().TransactionLink(digest)))
}

func printCallResult(e *env, res *hook.CallResult) {
	status := ""
	if res.Effects != nil {
		status = res.Effects.Status.Status
	}
	fmt.Printf("%s %s gas=%s\n", color.GreenString(res.Digest), statusString(status), res.GasCoin)
	for _, id := range res.ImmutableObjects {
		fmt.Printf("  immutable %s\n", id)
	}
	e.logger.Sugar().Debugw("Call result", "link", e.client.Network().TransactionLink(res.Digest))
}

func statusString(status string) string {
	switch status {
	case "success":
		return color.GreenString(status)
	case "":
		return color.YellowString("unknown")
	default:
		return color.RedString(status)
	}
}
