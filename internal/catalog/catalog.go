// Package catalog provides the tracked domain list: the built-in default and
// an optional YAML override that can be edited while the TUI is running.
package catalog

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/idilsaglam/breachtrack/internal/model"
)

// LastUpdated is when the built-in list was last refreshed.
const LastUpdated = "2025-08-27T16:35:00.000Z"

var defaultGroups = map[model.Category][]string{
	model.Critical: {
		"accounts.binance.com", "www.kucoin.com", "www.gate.io", "www.huobi.com",
		"www.bybit.com", "wallet.amepay.io", "wallet.covir.io", "wallet.lava.money",
		"wallet.tronsv.pro", "flame.exchange",
	},
	model.High: {
		"account.aax.com", "account.xiaomi.com", "auth.permission.io",
	},
	model.Medium: {
		"gmail.com", "discord.com", "www.mediafire.com",
	},
	model.Low: {
		"7hash.com", "a-ads.com", "allbestico.com", "app.com.bots.business", "apps.elfsight.com",
		"atomars.com", "bitly.com", "bitmart.com", "bitmart.info", "btlux.co", "coinbank247.com",
		"coinbene.com", "coinmarketcap.com", "contracts.mywish.io", "c-trade.com",
		"dd.scientifichash.com", "ftexchange.zendesk.com", "getbit.in", "heidicoin.io",
		"hotbit.io", "id.eldex.finance", "jiomart.com", "lukutex.com", "m.bilaxy.com",
		"m.bithumb.pro", "m.bitxmi.com", "minershash.com", "moremoney.io", "moviebloc.com",
		"mxc.com", "okex.com", "prepaidgamercard.com", "relictum.pro", "secure.droom.in",
		"uphold.com", "whitebit.com", "www.3qex.top", "www.aax.com", "www.bitmart.info",
		"www.centus.exchange", "www.coinbene.com", "www.c-trade.com", "www.egold.pro",
		"www.finexbox.com", "www.flame.exchange", "www.integromat.com", "www.jiomart.com",
		"www.joinhoney.com", "www.lukutex.com", "www.nowex.io", "www.okcoin.com", "www.thinkipos.com",
	},
}

// Default returns the built-in catalog.
func Default() model.Catalog {
	c, err := model.FromGroups(defaultGroups)
	if err != nil {
		// The built-in list is static; a failure here is a programming error.
		panic(err)
	}
	return c
}

// File is the on-disk YAML shape: one list of domains per category.
type File struct {
	Critical []string `yaml:"critical"`
	High     []string `yaml:"high"`
	Medium   []string `yaml:"medium"`
	Low      []string `yaml:"low"`
}

// Load reads a YAML catalog. An empty path or missing file yields Default.
func Load(path string) (model.Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return model.Catalog{}, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(b)
}

// Parse decodes a YAML catalog document. Unknown keys are rejected so a
// misspelled category doesn't silently drop domains.
func Parse(b []byte) (model.Catalog, error) {
	var raw map[string][]string
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return model.Catalog{}, fmt.Errorf("parse catalog: %w", err)
	}
	groups := make(map[model.Category][]string, len(raw))
	for k, v := range raw {
		cat, err := model.ParseCategory(k)
		if err != nil {
			return model.Catalog{}, fmt.Errorf("parse catalog: %w", err)
		}
		groups[cat] = v
	}
	return model.FromGroups(groups)
}

// Marshal renders a catalog back to the YAML file shape.
func Marshal(c model.Catalog) ([]byte, error) {
	g := c.ByCategory()
	return yaml.Marshal(File{
		Critical: g[model.Critical],
		High:     g[model.High],
		Medium:   g[model.Medium],
		Low:      g[model.Low],
	})
}
