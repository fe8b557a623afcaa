package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"storefront/internal/cart"
	"storefront/internal/checkout"
	"storefront/internal/config"
	"storefront/internal/httpapi"
	"storefront/internal/log"
	"storefront/internal/order"
	"storefront/internal/session"
)

// engine wires the client, session holder and checkout coordinator once per
// process; each cobra command borrows from it.
type engine struct {
	client      *httpapi.Client
	holder      *session.Holder
	coordinator *checkout.Coordinator
}

// lazyToken breaks the construction cycle between the client (needs a token
// source) and the holder (needs the client for auth calls).
type lazyToken struct {
	holder *session.Holder
}

func (t *lazyToken) Token() string {
	if t.holder == nil {
		return ""
	}
	return t.holder.Token()
}

func newEngine(c context.Context, cfg *config.Config) *engine {
	tokens := &lazyToken{}
	client := httpapi.NewClient(cfg.Application.BaseURL, cfg.Application.Timeout, tokens)
	holder := session.NewHolder(c, client, session.NewFileStore(cfg.Session.Path))
	tokens.holder = holder
	return &engine{
		client:      client,
		holder:      holder,
		coordinator: checkout.NewCoordinator(client),
	}
}

func (e *engine) loginCommand() *cobra.Command {
	var email, password string
	command := &cobra.Command{
		Use:   "login",
		Short: "Log in and persist the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := e.holder.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			fmt.Printf("logged in as %s (%s)\n", sess.User.Username, sess.User.Role)
			return nil
		},
	}
	command.Flags().StringVar(&email, "email", "", "account email")
	command.Flags().StringVar(&password, "password", "", "account password")
	_ = command.MarkFlagRequired("email")
	_ = command.MarkFlagRequired("password")
	return command
}

func (e *engine) registerCommand() *cobra.Command {
	var username, email, password string
	command := &cobra.Command{
		Use:   "register",
		Short: "Create an account; logs in when the backend returns a token",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := e.holder.Register(cmd.Context(), username, email, password)
			if err != nil {
				return err
			}
			if sess.Authenticated() {
				fmt.Printf("registered and logged in as %s\n", sess.User.Username)
				return nil
			}
			fmt.Println("registered, run `storefront login` to sign in")
			return nil
		},
	}
	command.Flags().StringVar(&username, "username", "", "display name")
	command.Flags().StringVar(&email, "email", "", "account email")
	command.Flags().StringVar(&password, "password", "", "account password")
	_ = command.MarkFlagRequired("username")
	_ = command.MarkFlagRequired("email")
	_ = command.MarkFlagRequired("password")
	return command
}

func (e *engine) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the persisted session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := e.holder.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("logged out")
			return nil
		},
	}
}

func (e *engine) whoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess := e.holder.Current()
			if !sess.Authenticated() {
				fmt.Println("anonymous")
				return nil
			}
			fmt.Printf("%s <%s> role=%s\n", sess.User.Username, sess.User.Email, sess.User.Role)
			return nil
		},
	}
}

func (e *engine) productsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "products [id]",
		Short: "List the catalog or show one product",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				id, err := uuid.Parse(args[0])
				if err != nil {
					return fmt.Errorf("invalid product id=%s with error=%w", args[0], err)
				}
				p, err := e.client.Product(cmd.Context(), id)
				if err != nil {
					return err
				}
				fmt.Printf("%s  %s  %s  stock=%d\n", p.ID, p.Name, p.Price, p.Stock)
				return nil
			}
			products, err := e.client.Products(cmd.Context())
			if err != nil {
				return err
			}
			for _, p := range products {
				fmt.Printf("%s  %s  %s  stock=%d\n", p.ID, p.Name, p.Price, p.Stock)
			}
			return nil
		},
	}
}

// orderCommand is the one-shot cart flow: each argument is product-id=qty,
// lines are added with a stock check against a fresh snapshot, then the
// cart is checked out.
func (e *engine) orderCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "order <product-id>=<quantity> ...",
		Short: "Build a cart from the arguments and check it out",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := cmd.Context()
			logger := zerolog.Ctx(c).With().Str(log.KeyTag, "orderCommand").Logger()

			crt := cart.New()
			for _, arg := range args {
				rawID, rawQty, found := strings.Cut(arg, "=")
				if !found {
					return fmt.Errorf("expected <product-id>=<quantity>, got %s", arg)
				}
				id, err := uuid.Parse(rawID)
				if err != nil {
					return fmt.Errorf("invalid product id=%s with error=%w", rawID, err)
				}
				qty, err := strconv.ParseInt(rawQty, 10, 32)
				if err != nil {
					return fmt.Errorf("invalid quantity=%s with error=%w", rawQty, err)
				}

				p, err := e.client.Product(c, id)
				if err != nil {
					return err
				}
				if err := p.CheckStock(int32(qty)); err != nil {
					return err
				}
				if !crt.AddItem(p, int32(qty)) {
					logger.Info().
						Str(log.KeyProductID, id.String()).
						Int64(log.KeyQuantity, qty).
						Msg("rejected cart line")
				}
			}
			fmt.Printf("cart total: %s\n", crt.Total())

			created, err := e.coordinator.Checkout(c, crt, e.holder.Current())
			if err != nil {
				return err
			}
			fmt.Printf("order %s created, status=%s, total=%s\n", created.ID, created.Status, created.Total)
			return nil
		},
	}
}

func (e *engine) ordersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "orders [id]",
		Short: "List your orders or show one order",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				id, err := uuid.Parse(args[0])
				if err != nil {
					return fmt.Errorf("invalid order id=%s with error=%w", args[0], err)
				}
				o, err := e.client.Order(cmd.Context(), id)
				if err != nil {
					return err
				}
				printOrder(o)
				return nil
			}
			orders, err := e.client.Orders(cmd.Context())
			if err != nil {
				return err
			}
			for _, o := range orders {
				printOrder(o)
			}
			return nil
		},
	}
}

func (e *engine) orderStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "order-status <order-id> <status>",
		Short: "Transition an order's status (admin)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := cmd.Context()
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid order id=%s with error=%w", args[0], err)
			}
			next, err := order.ParseStatus(args[1])
			if err != nil {
				return err
			}

			current, err := e.client.Order(c, id)
			if err != nil {
				return err
			}
			if !current.Status.CanTransitionTo(next) {
				return fmt.Errorf(
					"order status=%s cannot transition to status=%s",
					current.Status, next,
				)
			}

			updated, err := e.client.UpdateOrderStatus(c, id, next)
			if err != nil {
				return err
			}
			printOrder(updated)
			return nil
		},
	}
}

func (e *engine) cancelOrderCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <order-id>",
		Short: "Cancel an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid order id=%s with error=%w", args[0], err)
			}
			cancelled, err := e.client.CancelOrder(cmd.Context(), id)
			if err != nil {
				return err
			}
			printOrder(cancelled)
			return nil
		},
	}
}

func printOrder(o order.Order) {
	fmt.Printf("order %s  status=%s  total=%s  created=%s\n",
		o.ID, o.Status, o.Total, o.CreatedAt.Format("2006-01-02 15:04"))
	for _, item := range o.Items {
		fmt.Printf("  %s  x%d  %s\n", item.Name, item.Quantity, item.Price)
	}
}
