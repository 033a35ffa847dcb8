package taskfull

import (
	log "github.com/asecurityteam/component-log"
	stat "github.com/asecurityteam/component-stat"
	"github.com/asecurityteam/runhttp"
	"github.com/asecurityteam/settings/v2"
)

// Help generates the help output listing every environment variable read
// by the runtime, by the lambda modes, and by the given additional
// components.
func Help(components ...interface{}) string {
	base := []interface{}{runhttp.NewComponent(), log.NewComponent(), stat.NewComponent()}
	groups := make([]settings.Group, 0, len(base)+len(components))
	for _, c := range append(base, components...) {
		grp, err := settings.GroupFromComponent(c)
		if err != nil {
			continue
		}
		groups = append(groups, grp)
	}
	return settings.ExampleEnvGroups([]settings.Group{&settings.SettingGroup{
		NameValue:   "TASKFULL",
		GroupValues: groups,
	}})
}
