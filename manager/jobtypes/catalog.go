/*
 *     Copyright 2022 The Dragonfly Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *      http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */


//go:generate mockgen -destination mocks/catalog_mock.go -source catalog.go -package mocks

package jobtypes

import (
	"bytes"
	"context"
	"embed"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/atomic"
	"gopkg.in/yaml.v3"

	logger "d7y.io/renderfarm/internal/dflog"
	"d7y.io/renderfarm/manager/models"
	"d7y.io/renderfarm/pkg/dferrors"
	"d7y.io/renderfarm/pkg/digest"
)

//go:embed builtin/*.yaml
var builtin embed.FS

// Catalog serves the job types known to the manager.
type Catalog interface {
	// List returns job types in definition order.
	List() []models.JobType

	// Get returns the job type by name.
	Get(name string) (models.JobType, error)

	// Reload replaces every job type at once. The previous job types stay in
	// place when loading fails.
	Reload(ctx context.Context) error
}

type jobTypeSet struct {
	ordered []models.JobType
	index   map[string]int
}

type catalog struct {
	dir     string
	mu      sync.Mutex
	current *atomic.Value
}

// New loads the built-in job types, overridden by the definitions found in
// dir when dir is not empty.
func New(dir string) (Catalog, error) {
	c := &catalog{
		dir:     dir,
		current: &atomic.Value{},
	}

	if err := c.Reload(context.Background()); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *catalog) set() *jobTypeSet {
	return c.current.Load().(*jobTypeSet)
}

func (c *catalog) List() []models.JobType {
	set := c.set()
	jobTypes := make([]models.JobType, len(set.ordered))
	for i, jt := range set.ordered {
		jobTypes[i] = clone(jt)
	}

	return jobTypes
}

func (c *catalog) Get(name string) (models.JobType, error) {
	set := c.set()
	i, ok := set.index[name]
	if !ok {
		return models.JobType{}, dferrors.NotFoundf("job type %s not found", name)
	}

	return clone(set.ordered[i]), nil
}

func (c *catalog) Reload(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	set, err := load(c.dir)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return dferrors.FromContext(ctx, "reload job types")
	}

	c.current.Store(set)
	logger.Infof("loaded %d job types", len(set.ordered))
	return nil
}

// CheckEtag rejects submissions made against an older definition. An empty
// etag is always accepted.
func CheckEtag(jobType models.JobType, etag string) error {
	if etag == "" || etag == jobType.Etag {
		return nil
	}

	return dferrors.Validationf("job type %s changed since it was fetched, etag %s does not match", jobType.Name, etag)
}

func load(dir string) (*jobTypeSet, error) {
	set := &jobTypeSet{index: make(map[string]int)}

	paths, err := fs.Glob(builtin, "builtin/*.yaml")
	if err != nil {
		return nil, errors.Wrap(err, "list built-in job types")
	}
	sort.Strings(paths)

	for _, path := range paths {
		data, err := builtin.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "read %s", path)
		}

		if err := set.add(path, data); err != nil {
			return nil, err
		}
	}

	if dir == "" {
		return set, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "read job types dir %s", dir)
	}

	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "read %s", path)
		}

		if err := set.add(path, data); err != nil {
			return nil, err
		}
	}

	return set, nil
}

// add parses every document of a definition file. A job type named like an
// existing one replaces it in place.
func (s *jobTypeSet) add(path string, data []byte) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	for {
		var jt models.JobType
		if err := decoder.Decode(&jt); err != nil {
			if err == io.EOF {
				return nil
			}
			return errors.Wrapf(err, "parse %s", path)
		}

		if err := check(&jt); err != nil {
			return errors.Wrapf(err, "%s: job type %q", path, jt.Name)
		}

		canonical, err := yaml.Marshal(jt)
		if err != nil {
			return errors.Wrapf(err, "%s: job type %q", path, jt.Name)
		}
		jt.Etag = digest.SHA256FromBytes(canonical)

		if i, ok := s.index[jt.Name]; ok {
			s.ordered[i] = jt
			continue
		}

		s.index[jt.Name] = len(s.ordered)
		s.ordered = append(s.ordered, jt)
	}
}

var settingTypes = map[models.SettingType]bool{
	models.SettingTypeBool:   true,
	models.SettingTypeString: true,
	models.SettingTypeInt32:  true,
	models.SettingTypeFloat:  true,
}

var settingSubtypes = map[models.SettingSubtype]bool{
	models.SettingSubtypeFilePath:       true,
	models.SettingSubtypeDirPath:        true,
	models.SettingSubtypeHashedFilePath: true,
}

var validate = validator.New()

func check(jt *models.JobType) error {
	if jt.Name == "" || strings.ContainsAny(jt.Name, " \t/") {
		return errors.New("name must be non-empty without spaces or slashes")
	}

	if err := validate.Struct(jt); err != nil {
		return errors.Wrap(err, "invalid definition")
	}

	if jt.Label == "" {
		jt.Label = jt.Name
	}

	keys := make(map[string]bool, len(jt.Settings))
	for i := range jt.Settings {
		setting := &jt.Settings[i]
		if keys[setting.Key] {
			return errors.Errorf("duplicate setting %s", setting.Key)
		}
		keys[setting.Key] = true

		if !settingTypes[setting.Type] {
			return errors.Errorf("setting %s has unknown type %q", setting.Key, setting.Type)
		}

		if len(setting.Choices) > 0 && setting.Type != models.SettingTypeString {
			return errors.Errorf("setting %s: choices are only allowed for string settings", setting.Key)
		}

		if setting.Subtype != "" {
			if !settingSubtypes[setting.Subtype] {
				return errors.Errorf("setting %s has unknown subtype %q", setting.Key, setting.Subtype)
			}

			if setting.Type != models.SettingTypeString {
				return errors.Errorf("setting %s: subtypes are only allowed for string settings", setting.Key)
			}
		}

		if setting.Default != nil {
			v, err := Coerce(*setting, setting.Default)
			if err != nil {
				return errors.Wrapf(err, "setting %s: default", setting.Key)
			}
			setting.Default = v
		}
	}

	tasks := jt.Tasks
	if tasks.ChunkBy == "" {
		if tasks.ChunkSize != "" {
			return errors.New("tasks: chunk_size needs chunk_by")
		}
		return nil
	}

	if s, ok := jt.Setting(tasks.ChunkBy); !ok || s.Type != models.SettingTypeString {
		return errors.Errorf("tasks: chunk_by %s must name a string setting", tasks.ChunkBy)
	}

	if tasks.ChunkSize == "" {
		return nil
	}

	if n, err := strconv.Atoi(tasks.ChunkSize); err == nil {
		if n <= 0 {
			return errors.Errorf("tasks: chunk_size %d must be greater than 0", n)
		}
		return nil
	}

	if s, ok := jt.Setting(tasks.ChunkSize); !ok || s.Type != models.SettingTypeInt32 {
		return errors.Errorf("tasks: chunk_size %s must name an int32 setting", tasks.ChunkSize)
	}

	return nil
}

func clone(jt models.JobType) models.JobType {
	settings := make([]models.JobSetting, len(jt.Settings))
	for i, s := range jt.Settings {
		if s.Choices != nil {
			s.Choices = append([]string(nil), s.Choices...)
		}
		settings[i] = s
	}
	jt.Settings = settings
	return jt
}
