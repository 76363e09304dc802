package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"popcat/models"
)

// registerCommands registers all slash commands with Discord
func (b *Bot) registerCommands() error {
	itemChoices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(models.ShopItems))
	for _, item := range models.ShopItems {
		itemChoices = append(itemChoices, &discordgo.ApplicationCommandOptionChoice{
			Name:  string(item),
			Value: string(item),
		})
	}

	commands := []*discordgo.ApplicationCommand{
		{
			Name:        "open",
			Description: "Open your Pop Coin account and collect the starting balance",
		},
		{
			Name:        "balance",
			Description: "Check your pocket, bank and karma",
		},
		{
			Name:        "deposit",
			Description: "Move Pop Coins from your pocket into the bank",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "amount",
					Description: "Amount to deposit",
					Required:    true,
				},
			},
		},
		{
			Name:        "withdraw",
			Description: "Move Pop Coins from the bank back to your pocket",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "amount",
					Description: "Amount to withdraw",
					Required:    true,
				},
			},
		},
		{
			Name:        "daily",
			Description: "Claim your daily Pop Coins",
		},
		{
			Name:        "beg",
			Description: "Beg strangers for a few Pop Coins",
		},
		{
			Name:        "work",
			Description: "Work a shift for Pop Coins",
		},
		{
			Name:        "transfer",
			Description: "Send Pop Coins to another player",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "amount",
					Description: "Amount to send",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "Player to send to",
					Required:    true,
				},
			},
		},
		{
			Name:        "slots",
			Description: "Bet Pop Coins on the slot machine",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "bet",
					Description: "Amount to bet",
					Required:    true,
				},
			},
		},
		{
			Name:        "history",
			Description: "See your recent transactions",
		},
		{
			Name:        "rich",
			Description: "Show the richest players",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "board",
					Description: "Which balance to rank by",
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "Pocket", Value: "pocket"},
						{Name: "Bank", Value: "bank"},
					},
				},
			},
		},
		{
			Name:        "shop",
			Description: "Browse the item shop",
		},
		{
			Name:        "buy",
			Description: "Buy an item from the shop",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "item",
					Description: "Item to buy",
					Required:    true,
					Choices:     itemChoices,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "quantity",
					Description: "How many (default 1)",
				},
			},
		},
		{
			Name:        "use",
			Description: "Use an item you own",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "item",
					Description: "Item to use",
					Required:    true,
					Choices:     itemChoices,
				},
			},
		},
		{
			Name:        "inventory",
			Description: "See what you own",
		},
		{
			Name:        "sell",
			Description: "Sell fish or karma for Pop Coins",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "goods",
					Description: "What to sell",
					Required:    true,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "Fish", Value: "fish"},
						{Name: "Karma", Value: "karma"},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "quantity",
					Description: "How many (default 1)",
				},
			},
		},
		{
			Name:        "postmeme",
			Description: "Post a meme with your laptop and earn karma",
		},
		{
			Name:        "stocks",
			Description: "Trade stocks with your bank balance",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "quote",
					Description: "Look up a stock price",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "symbol",
							Description: "Ticker symbol",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "buy",
					Description: "Invest Pop Coins in a stock",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "symbol",
							Description: "Ticker symbol",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "amount",
							Description: "Pop Coins to invest",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "sell",
					Description: "Sell part of a position",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "symbol",
							Description: "Ticker symbol",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "amount",
							Description: "Pop Coins' worth to sell",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "portfolio",
					Description: "See your positions",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "leaderboard",
					Description: "Top investors by coins committed",
				},
			},
		},
		{
			Name:        "country",
			Description: "Guess the country from its map silhouette",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "new",
					Description: "Start a new round",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "guess",
					Description: "Guess the hidden country",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "country",
							Description: "Country name",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "giveup",
					Description: "Give up and reveal the answer",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "history",
					Description: "See your past wins",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "leaderboard",
					Description: "Top players by wins",
				},
			},
		},
		{
			Name:        "afk",
			Description: "Manage your away marker",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "set",
					Description: "Mark yourself away",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "reason",
							Description: "Why you're away",
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "clear",
					Description: "Remove your away marker",
				},
			},
		},
		{
			Name:        "warnings",
			Description: "Manage moderation warnings",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "add",
					Description: "Warn a user",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionUser,
							Name:        "user",
							Description: "User to warn",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "reason",
							Description: "Why they're being warned",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "list",
					Description: "List a user's warnings",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionUser,
							Name:        "user",
							Description: "User to inspect",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "remove",
					Description: "Remove one of a user's warnings",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionUser,
							Name:        "user",
							Description: "User to clear",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "position",
							Description: "Warning number from the list",
							Required:    true,
						},
					},
				},
			},
		},
		{
			Name:        "settings",
			Description: "Configure server modules",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "show",
					Description: "Show the current configuration",
				},
				welcomeGroup(),
				ticketGroup(),
				channelGroup("suggestions", "Collect suggestions in a channel"),
				channelGroup("chatbot", "Let the chatbot reply in a channel"),
			},
		},
		{
			Name:        "custom",
			Description: "Manage custom commands",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "add",
					Description: "Add a trigger/response pair",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "trigger",
							Description: "Word that triggers the response",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "response",
							Description: "What the bot should say",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "remove",
					Description: "Remove a custom command",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "trigger",
							Description: "Trigger to remove",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "list",
					Description: "List this server's custom commands",
				},
			},
		},
		{
			Name:        "ticket",
			Description: "Open or close a support ticket",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "open",
					Description: "Open a private support channel",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "close",
					Description: "Close the current ticket channel",
				},
			},
		},
		{
			Name:        "usage",
			Description: "See how many commands have been run",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "scope",
					Description: "Whose counter to show",
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "Me", Value: "me"},
						{Name: "Server", Value: "server"},
					},
				},
			},
		},
	}

	for _, cmd := range commands {
		_, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, b.config.GuildID, cmd)
		if err != nil {
			return fmt.Errorf("cannot create '%s' command: %w", cmd.Name, err)
		}
	}

	return nil
}

// welcomeGroup builds the settings welcome subcommand group
func welcomeGroup() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionSubCommandGroup,
		Name:        "welcome",
		Description: "Greet new members",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "set",
				Description: "Enable welcome messages",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionChannel,
						Name:        "channel",
						Description: "Where to greet",
						Required:    true,
					},
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "message",
						Description: "Greeting text; {user} becomes a mention",
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "disable",
				Description: "Disable welcome messages",
			},
		},
	}
}

// ticketGroup builds the settings ticket subcommand group
func ticketGroup() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionSubCommandGroup,
		Name:        "ticket",
		Description: "Configure the ticket system",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "set",
				Description: "Enable tickets",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionChannel,
						Name:        "category",
						Description: "Category ticket channels go under",
						Required:    true,
					},
					{
						Type:        discordgo.ApplicationCommandOptionRole,
						Name:        "role",
						Description: "Support role that can see tickets",
						Required:    true,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "disable",
				Description: "Disable tickets",
			},
		},
	}
}

// channelGroup builds a single-channel settings subcommand group
func channelGroup(name, description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionSubCommandGroup,
		Name:        name,
		Description: description,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "set",
				Description: "Enable the module in a channel",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionChannel,
						Name:        "channel",
						Description: "Channel to use",
						Required:    true,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "disable",
				Description: "Disable the module",
			},
		},
	}
}
